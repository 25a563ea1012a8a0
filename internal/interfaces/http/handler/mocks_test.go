package handler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared"
	"github.com/taxdesk/backend/internal/domain/shared/valueobject"
)

// MockInvoiceRepository implements recon.InvoiceRepository for testing
type MockInvoiceRepository struct {
	mock.Mock
}

var _ recon.InvoiceRepository = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*recon.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recon.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOpenByDirection(ctx context.Context, tenantID uuid.UUID, direction recon.InvoiceDirection) ([]recon.Invoice, error) {
	args := m.Called(ctx, tenantID, direction)
	return args.Get(0).([]recon.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter recon.InvoiceFilter) ([]recon.Invoice, int64, error) {
	args := m.Called(ctx, tenantID, filter)
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

// MockBankTransactionRepository implements recon.BankTransactionRepository for testing
type MockBankTransactionRepository struct {
	mock.Mock
}

var _ recon.BankTransactionRepository = (*MockBankTransactionRepository)(nil)

func (m *MockBankTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*recon.BankTransaction, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recon.BankTransaction), args.Error(1)
}

func (m *MockBankTransactionRepository) FindUnmatched(ctx context.Context, tenantID uuid.UUID) ([]recon.BankTransaction, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]recon.BankTransaction), args.Error(1)
}

func (m *MockBankTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter recon.TransactionFilter) ([]recon.BankTransaction, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]recon.BankTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockBankTransactionRepository) Save(ctx context.Context, tx *recon.BankTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockBankTransactionRepository) SaveAll(ctx context.Context, txs []recon.BankTransaction) error {
	args := m.Called(ctx, txs)
	return args.Error(0)
}

// MockLedgerEntryRepository implements recon.LedgerEntryRepository for testing
type MockLedgerEntryRepository struct {
	mock.Mock
}

var _ recon.LedgerEntryRepository = (*MockLedgerEntryRepository)(nil)

func (m *MockLedgerEntryRepository) AppendAll(ctx context.Context, entries []*recon.LedgerEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]recon.LedgerEntry, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]recon.LedgerEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerEntryRepository) ExistsForTransaction(ctx context.Context, tenantID, transactionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, transactionID)
	return args.Bool(0), args.Error(1)
}

// MockIdempotencyStore implements shared.IdempotencyStore for testing
type MockIdempotencyStore struct {
	mock.Mock
}

var _ shared.IdempotencyStore = (*MockIdempotencyStore)(nil)

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newSalesInvoice(t *testing.T, tenantID uuid.UUID, number string, total decimal.Decimal) *recon.Invoice {
	t.Helper()
	inv, err := recon.NewInvoice(
		tenantID,
		number,
		time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		recon.InvoiceDirectionSales,
		"Acme Traders Pvt Ltd",
		"27AAPFU0939F1ZV",
		total,
		decimal.Zero, decimal.Zero, decimal.Zero,
		valueobject.NewMoneyINR(total),
	)
	require.NoError(t, err)
	return inv
}

func newCreditTransaction(t *testing.T, tenantID uuid.UUID, refNo string, amount decimal.Decimal) *recon.BankTransaction {
	t.Helper()
	tx, err := recon.NewBankTransaction(
		tenantID,
		time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC),
		recon.TransactionDirectionCredit,
		"NEFT "+refNo+" Acme Traders",
		refNo,
		valueobject.NewMoneyINR(amount),
		"Acme Traders",
		"",
		nil,
	)
	require.NoError(t, err)
	return tx
}
