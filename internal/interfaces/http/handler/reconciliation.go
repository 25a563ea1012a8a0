package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reconapp "github.com/taxdesk/backend/internal/application/recon"
	"github.com/taxdesk/backend/internal/interfaces/http/dto"
)

// ReconciliationHandler handles matching API endpoints.
type ReconciliationHandler struct {
	BaseHandler
	reconciliationService *reconapp.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationService *reconapp.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: reconciliationService}
}

// Run executes a reconciliation pass over the tenant's unmatched transactions.
func (h *ReconciliationHandler) Run(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	resp, err := h.reconciliationService.Run(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AcceptMatch settles a transaction against an operator-chosen invoice.
func (h *ReconciliationHandler) AcceptMatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "invalid transaction ID")
		return
	}
	transactionID := uuid.MustParse(idReq.ID)

	var req reconapp.AcceptMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.reconciliationService.AcceptMatch(c.Request.Context(), tenantID, transactionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers reconciliation routes.
func (h *ReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recon := rg.Group("/reconciliation")
	{
		recon.POST("/run", h.Run)
		recon.POST("/transactions/:id/accept", h.AcceptMatch)
	}
}
