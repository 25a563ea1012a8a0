package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taxdesk/backend/internal/application/ingestion"
	reconapp "github.com/taxdesk/backend/internal/application/recon"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared"
	"github.com/taxdesk/backend/internal/infrastructure/csvimport"
	"github.com/taxdesk/backend/internal/interfaces/http/dto"
)

// InvoiceHandler handles invoice API endpoints.
type InvoiceHandler struct {
	BaseHandler
	invoiceService *reconapp.InvoiceService
	importService  *ingestion.InvoiceImportService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService *reconapp.InvoiceService, importService *ingestion.InvoiceImportService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		importService:  importService,
	}
}

// ListInvoicesRequest represents invoice list query parameters.
type ListInvoicesRequest struct {
	dto.ListRequest
	Direction string `form:"direction" binding:"omitempty,oneof=SALES PURCHASE"`
	Status    string `form:"status" binding:"omitempty,oneof=UNPAID PAID PARTIALLY_PAID"`
}

// ImportInvoicesResponse represents the result of a CSV invoice import.
type ImportInvoicesResponse struct {
	TotalRows    int                  `json:"total_rows"`
	ImportedRows int                  `json:"imported_rows"`
	SkippedRows  int                  `json:"skipped_rows"`
	ErrorRows    int                  `json:"error_rows"`
	Errors       []csvimport.RowError `json:"errors,omitempty"`
}

// Create records a new invoice.
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	var req reconapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.invoiceService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single invoice by ID.
func (h *InvoiceHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "invalid invoice ID")
		return
	}
	id := uuid.MustParse(idReq.ID)

	resp, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a page of invoices, optionally filtered by direction and status.
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	req := ListInvoicesRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := recon.InvoiceFilter{Filter: toDomainFilter(req.ListRequest)}
	if req.Direction != "" {
		d := recon.InvoiceDirection(req.Direction)
		filter.Direction = &d
	}
	if req.Status != "" {
		s := recon.InvoiceStatus(req.Status)
		filter.Status = &s
	}

	page, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ImportCSV bulk-imports invoices from an uploaded CSV file.
func (h *InvoiceHandler) ImportCSV(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant ID")
		return
	}

	file, _, err := c.Request.FormFile("file")
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

	result, err := h.importService.ImportCSV(c.Request.Context(), tenantID, content)
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	h.Success(c, ImportInvoicesResponse{
		TotalRows:    result.TotalRows,
		ImportedRows: result.ImportedRows,
		SkippedRows:  result.SkippedRows,
		ErrorRows:    result.ErrorRows,
		Errors:       result.Errors,
	})
}

// handleImportError maps CSV parse failures onto validation error codes.
func (h *InvoiceHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, csvimport.ErrEmptyFile), errors.Is(err, csvimport.ErrNoDataRows):
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeValidationRequired), dto.ErrCodeValidationRequired, err.Error())
	case errors.Is(err, csvimport.ErrInvalidEncoding), errors.Is(err, csvimport.ErrMissingHeader):
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeValidationFormat), dto.ErrCodeValidationFormat, err.Error())
	default:
		var headerErr *csvimport.HeaderError
		if errors.As(err, &headerErr) {
			h.Error(c, dto.GetHTTPStatus(dto.ErrCodeValidationRequired), dto.ErrCodeValidationRequired, headerErr.Error())
			return
		}
		h.HandleError(c, err)
	}
}

// RegisterRoutes registers invoice routes.
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/:id", h.Get)
		invoices.POST("/import", h.ImportCSV)
	}
}

// toDomainFilter converts API list parameters to a domain filter.
func toDomainFilter(req dto.ListRequest) shared.Filter {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	return filter
}
