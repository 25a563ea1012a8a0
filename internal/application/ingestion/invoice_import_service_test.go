package ingestion

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taxdesk/backend/internal/domain/recon"
	csvimport "github.com/taxdesk/backend/internal/infrastructure/csvimport"
)

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*recon.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recon.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOpenByDirection(ctx context.Context, tenantID uuid.UUID, direction recon.InvoiceDirection) ([]recon.Invoice, error) {
	args := m.Called(ctx, tenantID, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recon.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter recon.InvoiceFilter) ([]recon.Invoice, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]recon.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (bool, error) {
	args := m.Called(ctx, tenantID, invoiceNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *recon.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveAll(ctx context.Context, invoices []recon.Invoice) error {
	args := m.Called(ctx, invoices)
	return args.Error(0)
}

var _ recon.InvoiceRepository = (*MockInvoiceRepository)(nil)

const invoiceCSVHeader = "invoice_number,invoice_date,direction,party_name,party_gstin,taxable_value,cgst,sgst,igst,total_amount\n"

func TestInvoiceImportService_ImportCSV(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("imports valid rows", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		service := NewInvoiceImportService(repo)

		csv := invoiceCSVHeader +
			"INV-2024-001,2024-05-10,SALES,Acme Traders Pvt Ltd,27AAPFU0939F1ZV,100000,9000,9000,0,118000\n" +
			"INV-2024-002,2024-05-11,purchase,Mehta Suppliers,,50000,0,0,9000,59000\n"

		repo.On("ExistsByNumber", ctx, tenantID, "INV-2024-001").Return(false, nil)
		repo.On("ExistsByNumber", ctx, tenantID, "INV-2024-002").Return(false, nil)
		repo.On("SaveAll", ctx, mock.MatchedBy(func(invoices []recon.Invoice) bool {
			return len(invoices) == 2 &&
				invoices[0].Direction == recon.InvoiceDirectionSales &&
				invoices[1].Direction == recon.InvoiceDirectionPurchase
		})).Return(nil)

		result, err := service.ImportCSV(ctx, tenantID, []byte(csv))
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalRows)
		assert.Equal(t, 2, result.ImportedRows)
		assert.Equal(t, 0, result.ErrorRows)
		repo.AssertExpectations(t)
	})

	t.Run("skips duplicates in file and store", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		service := NewInvoiceImportService(repo)

		csv := invoiceCSVHeader +
			"INV-2024-003,2024-05-10,SALES,Acme Traders,,0,0,0,0,1000\n" +
			"INV-2024-003,2024-05-10,SALES,Acme Traders,,0,0,0,0,1000\n" +
			"INV-2024-004,2024-05-10,SALES,Acme Traders,,0,0,0,0,2000\n"

		repo.On("ExistsByNumber", ctx, tenantID, "INV-2024-003").Return(false, nil).Once()
		repo.On("ExistsByNumber", ctx, tenantID, "INV-2024-004").Return(true, nil)
		repo.On("SaveAll", ctx, mock.MatchedBy(func(invoices []recon.Invoice) bool {
			return len(invoices) == 1 && invoices[0].InvoiceNumber == "INV-2024-003"
		})).Return(nil)

		result, err := service.ImportCSV(ctx, tenantID, []byte(csv))
		require.NoError(t, err)
		assert.Equal(t, 1, result.ImportedRows)
		assert.Equal(t, 2, result.SkippedRows)
	})

	t.Run("reports row errors without aborting the import", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		service := NewInvoiceImportService(repo)

		csv := invoiceCSVHeader +
			"INV-2024-005,10/05/2024,SALES,Acme Traders,,0,0,0,0,1000\n" +
			"INV-2024-006,2024-05-10,SIDEWAYS,Acme Traders,,0,0,0,0,1000\n" +
			"INV-2024-007,2024-05-10,SALES,Acme Traders,,0,0,0,abc,1000\n" +
			"INV-2024-008,2024-05-10,SALES,Acme Traders,,0,0,0,0,5000\n"

		repo.On("ExistsByNumber", ctx, tenantID, mock.Anything).Return(false, nil)
		repo.On("SaveAll", ctx, mock.MatchedBy(func(invoices []recon.Invoice) bool {
			return len(invoices) == 1 && invoices[0].InvoiceNumber == "INV-2024-008"
		})).Return(nil)

		result, err := service.ImportCSV(ctx, tenantID, []byte(csv))
		require.NoError(t, err)
		assert.Equal(t, 4, result.TotalRows)
		assert.Equal(t, 1, result.ImportedRows)
		assert.Equal(t, 3, result.ErrorRows)
		require.Len(t, result.Errors, 3)
		assert.Equal(t, "invoice_date", result.Errors[0].Column)
		assert.Equal(t, "direction", result.Errors[1].Column)
		assert.Equal(t, "igst", result.Errors[2].Column)
	})

	t.Run("rejects missing required columns", func(t *testing.T) {
		service := NewInvoiceImportService(new(MockInvoiceRepository))

		csv := "invoice_number,party_name\nINV-1,Acme\n"
		_, err := service.ImportCSV(ctx, tenantID, []byte(csv))
		require.Error(t, err)

		var headerErr *csvimport.HeaderError
		require.ErrorAs(t, err, &headerErr)
		assert.Contains(t, headerErr.Missing, "invoice_date")
	})

	t.Run("rejects file without data rows", func(t *testing.T) {
		service := NewInvoiceImportService(new(MockInvoiceRepository))

		_, err := service.ImportCSV(ctx, tenantID, []byte(invoiceCSVHeader))
		assert.ErrorIs(t, err, csvimport.ErrNoDataRows)
	})
}
