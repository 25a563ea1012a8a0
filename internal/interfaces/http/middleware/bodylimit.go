package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taxdesk/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects requests whose body exceeds maxBytes. Statement uploads
// are the largest payloads this API accepts, so the limit is enforced
// globally and sized for them.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("REQUEST_TOO_LARGE", "request body exceeds maximum allowed size"))
			return
		}

		// Streaming requests without a Content-Length still get capped.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
