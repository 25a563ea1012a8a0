package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checkDB func() error
}

// NewHealthHandler creates a HealthHandler. checkDB is optional and makes the
// readiness probe verify database connectivity.
func NewHealthHandler(checkDB func() error) *HealthHandler {
	return &HealthHandler{checkDB: checkDB}
}

// Health reports process liveness.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready reports whether the service can take traffic.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.checkDB != nil {
		if err := h.checkDB(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"reason": "database unreachable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// RegisterRoutes registers health routes.
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/ready", h.Ready)
}
