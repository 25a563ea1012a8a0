package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reconapp "github.com/taxdesk/backend/internal/application/recon"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/interfaces/http/dto"
)

// TransactionHandler handles bank transaction API endpoints.
type TransactionHandler struct {
	BaseHandler
	transactionService *reconapp.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService *reconapp.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// ListTransactionsRequest represents transaction list query parameters.
type ListTransactionsRequest struct {
	dto.ListRequest
	Direction string `form:"direction" binding:"omitempty,oneof=CREDIT DEBIT"`
	Matched   *bool  `form:"matched"`
}

// Get returns a single bank transaction by ID.
func (h *TransactionHandler) Get(c *gin.Context) {
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
	id := uuid.MustParse(idReq.ID)

	resp, err := h.transactionService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a page of bank transactions, optionally filtered by direction
// and match state.
func (h *TransactionHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	req := ListTransactionsRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := recon.TransactionFilter{Filter: toDomainFilter(req.ListRequest), Matched: req.Matched}
	if req.Direction != "" {
		d := recon.TransactionDirection(req.Direction)
		filter.Direction = &d
	}

	page, err := h.transactionService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// RegisterRoutes registers bank transaction routes.
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.List)
		transactions.GET("/:id", h.Get)
	}
}
