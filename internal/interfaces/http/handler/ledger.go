package handler

import (
	"github.com/gin-gonic/gin"
	reconapp "github.com/taxdesk/backend/internal/application/recon"
	"github.com/taxdesk/backend/internal/interfaces/http/dto"
)

// LedgerHandler handles ledger entry API endpoints.
type LedgerHandler struct {
	BaseHandler
	ledgerService *reconapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService *reconapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// List returns a page of ledger entries.
func (h *LedgerHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.ledgerService.List(c.Request.Context(), tenantID, toDomainFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// RegisterRoutes registers ledger routes.
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ledger := rg.Group("/ledger")
	{
		ledger.GET("/entries", h.List)
	}
}
