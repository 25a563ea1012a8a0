package recon

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared"
	"github.com/taxdesk/backend/internal/domain/shared/valueobject"
)

// invoiceDateLayout is the wire format for invoice dates
const invoiceDateLayout = "2006-01-02"

// InvoiceService handles invoice-related business operations
type InvoiceService struct {
	invoiceRepo recon.InvoiceRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo recon.InvoiceRepository) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo}
}

// Create records a new invoice entered by hand
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	invoiceDate, err := time.Parse(invoiceDateLayout, req.InvoiceDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Invoice date must be in YYYY-MM-DD format")
	}

	total, err := valueobject.NewMoney(req.TotalAmount, valueobject.INR)
	if err != nil {
		return nil, err
	}

	inv, err := recon.NewInvoice(
		tenantID,
		req.InvoiceNumber,
		invoiceDate,
		recon.InvoiceDirection(req.Direction),
		req.PartyName,
		req.PartyGSTIN,
		req.TaxableValue,
		req.CGST, req.SGST, req.IGST,
		total,
	)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	return ToInvoiceResponse(inv), nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// List retrieves invoices matching the filter
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter recon.InvoiceFilter) (*shared.Paginated[InvoiceResponse], error) {
	invoices, total, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = *ToInvoiceResponse(&invoices[i])
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}
