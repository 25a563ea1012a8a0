package recon

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared"
)

func TestInvoiceService_Create(t *testing.T) {
	t.Run("creates sales invoice", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := NewInvoiceService(invoiceRepo)

		invoiceRepo.On("Save", mock.Anything, mock.MatchedBy(func(inv *recon.Invoice) bool {
			return inv.InvoiceNumber == "INV-2024-001" && inv.Status == recon.InvoiceStatusUnpaid
		})).Return(nil)

		tenantID := uuid.New()
		resp, err := service.Create(context.Background(), tenantID, CreateInvoiceRequest{
			InvoiceNumber: "INV-2024-001",
			InvoiceDate:   "2024-05-10",
			Direction:     "SALES",
			PartyName:     "Acme Traders Pvt Ltd",
			PartyGSTIN:    "27AAPFU0939F1ZV",
			TaxableValue:  decimal.NewFromInt(100000),
			CGST:          decimal.NewFromInt(9000),
			SGST:          decimal.NewFromInt(9000),
			TotalAmount:   decimal.NewFromInt(118000),
		})
		require.NoError(t, err)

		assert.Equal(t, tenantID, resp.TenantID)
		assert.Equal(t, "SALES", resp.Direction)
		assert.Equal(t, "UNPAID", resp.Status)
		assert.True(t, resp.TaxTotal.Equal(decimal.NewFromInt(18000)))
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		service := NewInvoiceService(new(MockInvoiceRepository))

		_, err := service.Create(context.Background(), uuid.New(), CreateInvoiceRequest{
			InvoiceNumber: "INV-2024-002",
			InvoiceDate:   "10/05/2024",
			Direction:     "SALES",
			PartyName:     "Acme Traders Pvt Ltd",
			TotalAmount:   decimal.NewFromInt(1000),
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DATE", domainErr.Code)
	})

	t.Run("rejects non-positive total", func(t *testing.T) {
		service := NewInvoiceService(new(MockInvoiceRepository))

		_, err := service.Create(context.Background(), uuid.New(), CreateInvoiceRequest{
			InvoiceNumber: "INV-2024-003",
			InvoiceDate:   "2024-05-10",
			Direction:     "PURCHASE",
			PartyName:     "Mehta Suppliers",
			TotalAmount:   decimal.Zero,
		})
		assert.Error(t, err)
	})
}

func TestInvoiceService_GetByID(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(invoiceRepo)
	tenantID := uuid.New()

	t.Run("returns invoice", func(t *testing.T) {
		inv := newOpenSalesInvoice(t, tenantID, "INV-2024-004", 42000)
		invoiceRepo.On("FindByIDForTenant", mock.Anything, tenantID, inv.ID).Return(inv, nil)

		resp, err := service.GetByID(context.Background(), tenantID, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-2024-004", resp.InvoiceNumber)
	})

	t.Run("propagates not found", func(t *testing.T) {
		missing := uuid.New()
		invoiceRepo.On("FindByIDForTenant", mock.Anything, tenantID, missing).Return(nil, shared.ErrNotFound)

		_, err := service.GetByID(context.Background(), tenantID, missing)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestInvoiceService_List(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(invoiceRepo)
	tenantID := uuid.New()

	inv := newOpenSalesInvoice(t, tenantID, "INV-2024-005", 9000)
	filter := recon.InvoiceFilter{Filter: shared.DefaultFilter()}
	invoiceRepo.On("FindAllForTenant", mock.Anything, tenantID, filter).Return([]recon.Invoice{*inv}, int64(41), nil)

	result, err := service.List(context.Background(), tenantID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(41), result.Total)
	assert.Equal(t, 3, result.TotalPages)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "INV-2024-005", result.Items[0].InvoiceNumber)
}
