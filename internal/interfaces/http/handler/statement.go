package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taxdesk/backend/internal/application/ingestion"
)

// statementDownloadExpiry is how long presigned statement download links stay valid.
const statementDownloadExpiry = 15 * time.Minute

// StatementHandler handles bank statement API endpoints.
type StatementHandler struct {
	BaseHandler
	statementService *ingestion.StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementService *ingestion.StatementService) *StatementHandler {
	return &StatementHandler{statementService: statementService}
}

// StatementDownloadURLRequest represents download URL query parameters.
type StatementDownloadURLRequest struct {
	Key string `form:"key" binding:"required"`
}

// StatementDownloadURLResponse carries a presigned statement download link.
type StatementDownloadURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Import ingests an uploaded bank statement and records its transactions.
func (h *StatementHandler) Import(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "failed to read uploaded file")
		return
	}

	resp, err := h.statementService.ImportStatement(c.Request.Context(), tenantID, ingestion.ImportStatementRequest{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// DownloadURL returns a presigned link for a previously imported statement.
func (h *StatementHandler) DownloadURL(c *gin.Context) {
	if _, err := getTenantID(c); err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	var req StatementDownloadURLRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "key is required")
		return
	}

	url, expiresAt, err := h.statementService.StatementDownloadURL(c.Request.Context(), req.Key, statementDownloadExpiry)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, StatementDownloadURLResponse{URL: url, ExpiresAt: expiresAt})
}

// RegisterRoutes registers statement routes.
func (h *StatementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	statements := rg.Group("/statements")
	{
		statements.POST("/import", h.Import)
		statements.GET("/download-url", h.DownloadURL)
	}
}
