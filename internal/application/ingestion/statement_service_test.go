package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared"
	"github.com/taxdesk/backend/internal/infrastructure/extraction"
	"go.uber.org/zap"
)

// =============================================================================
// Mocks and Fakes
// =============================================================================

// MockBankTransactionRepository is a mock implementation of BankTransactionRepository
type MockBankTransactionRepository struct {
	mock.Mock
}

func (m *MockBankTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*recon.BankTransaction, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recon.BankTransaction), args.Error(1)
}

func (m *MockBankTransactionRepository) FindUnmatched(ctx context.Context, tenantID uuid.UUID) ([]recon.BankTransaction, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recon.BankTransaction), args.Error(1)
}

func (m *MockBankTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter recon.TransactionFilter) ([]recon.BankTransaction, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
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

var _ recon.BankTransactionRepository = (*MockBankTransactionRepository)(nil)

// MockDocumentStorage is a mock implementation of DocumentStorage
type MockDocumentStorage struct {
	mock.Mock
}

func (m *MockDocumentStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

func (m *MockDocumentStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockDocumentStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockDocumentStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

var _ DocumentStorage = (*MockDocumentStorage)(nil)

// MockIdempotencyStore is a mock implementation of IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

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

var _ shared.IdempotencyStore = (*MockIdempotencyStore)(nil)

// fakeExtractor returns a canned statement or error
type fakeExtractor struct {
	statement *extraction.ExtractedStatement
	err       error
	lastText  string
}

func (f *fakeExtractor) ExtractStatement(ctx context.Context, rawText string) (*extraction.ExtractedStatement, error) {
	f.lastText = rawText
	if f.err != nil {
		return nil, f.err
	}
	return f.statement, nil
}

func newStatementTestService(extractor *fakeExtractor) (*StatementService, *MockBankTransactionRepository, *MockDocumentStorage, *MockIdempotencyStore) {
	txRepo := new(MockBankTransactionRepository)
	storage := new(MockDocumentStorage)
	idempotency := new(MockIdempotencyStore)
	service := NewStatementService(txRepo, extractor, storage, idempotency, zap.NewNop())
	return service, txRepo, storage, idempotency
}

// =============================================================================
// ImportStatement Tests
// =============================================================================

func TestStatementService_ImportStatement(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	content := []byte("HDFC BANK\n12/05/2024 NEFT INV-2024-001 Acme Traders CR 1,18,000.00")

	t.Run("imports extracted transactions", func(t *testing.T) {
		balance := decimal.NewFromInt(250000)
		extractor := &fakeExtractor{statement: &extraction.ExtractedStatement{
			BankName:      "HDFC Bank",
			AccountNumber: "XXXX1234",
			Transactions: []extraction.ExtractedTransaction{
				{
					Date:         time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC),
					Direction:    "CREDIT",
					Description:  "NEFT INV-2024-001 Acme Traders",
					RefNo:        "INV-2024-001",
					Amount:       decimal.NewFromInt(118000),
					Counterparty: "Acme Traders",
					Balance:      &balance,
				},
			},
		}}
		service, txRepo, storage, idempotency := newStatementTestService(extractor)

		idempotency.On("MarkProcessed", ctx, mock.Anything, statementDedupeTTL).Return(true, nil)
		storage.On("Upload", ctx, mock.Anything, content, "text/plain").Return(nil)
		txRepo.On("SaveAll", ctx, mock.MatchedBy(func(txs []recon.BankTransaction) bool {
			return len(txs) == 1 && txs[0].RefNo == "INV-2024-001" && txs[0].TenantID == tenantID
		})).Return(nil)

		resp, err := service.ImportStatement(ctx, tenantID, ImportStatementRequest{
			FileName: "may-statement.txt",
			Content:  content,
		})
		require.NoError(t, err)

		assert.Equal(t, "HDFC Bank", resp.BankName)
		assert.Equal(t, 1, resp.Imported)
		assert.Equal(t, 0, resp.Skipped)
		require.Len(t, resp.TransactionIDs, 1)
		assert.Contains(t, resp.StorageKey, "statements/")
		assert.Equal(t, string(content), extractor.lastText)

		txRepo.AssertExpectations(t)
		storage.AssertExpectations(t)
	})

	t.Run("rejects duplicate content", func(t *testing.T) {
		service, _, _, idempotency := newStatementTestService(&fakeExtractor{})
		idempotency.On("MarkProcessed", ctx, mock.Anything, statementDedupeTTL).Return(false, nil)

		_, err := service.ImportStatement(ctx, tenantID, ImportStatementRequest{
			FileName: "may-statement.txt",
			Content:  content,
		})
		assert.ErrorIs(t, err, ErrDuplicateStatement)
	})

	t.Run("rejects empty upload", func(t *testing.T) {
		service, _, _, _ := newStatementTestService(&fakeExtractor{})

		_, err := service.ImportStatement(ctx, tenantID, ImportStatementRequest{FileName: "empty.txt"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_STATEMENT", domainErr.Code)
	})

	t.Run("skips invalid lines but keeps the rest", func(t *testing.T) {
		extractor := &fakeExtractor{statement: &extraction.ExtractedStatement{
			Transactions: []extraction.ExtractedTransaction{
				{
					Date:      time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC),
					Direction: "CREDIT",
					Amount:    decimal.NewFromInt(5000),
				},
				{
					// Zero amount never passes domain validation.
					Date:      time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC),
					Direction: "CREDIT",
					Amount:    decimal.Zero,
				},
				{
					Date:      time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC),
					Direction: "SIDEWAYS",
					Amount:    decimal.NewFromInt(100),
				},
			},
		}}
		service, txRepo, storage, idempotency := newStatementTestService(extractor)

		idempotency.On("MarkProcessed", ctx, mock.Anything, statementDedupeTTL).Return(true, nil)
		storage.On("Upload", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		txRepo.On("SaveAll", ctx, mock.MatchedBy(func(txs []recon.BankTransaction) bool {
			return len(txs) == 1
		})).Return(nil)

		resp, err := service.ImportStatement(ctx, tenantID, ImportStatementRequest{
			FileName: "mixed.txt",
			Content:  []byte("statement body"),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Imported)
		assert.Equal(t, 2, resp.Skipped)
	})

	t.Run("propagates extraction failure", func(t *testing.T) {
		extractor := &fakeExtractor{err: assert.AnError}
		service, _, storage, idempotency := newStatementTestService(extractor)

		idempotency.On("MarkProcessed", ctx, mock.Anything, statementDedupeTTL).Return(true, nil)
		storage.On("Upload", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := service.ImportStatement(ctx, tenantID, ImportStatementRequest{
			FileName: "bad.txt",
			Content:  []byte("garbled"),
		})
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestStatementService_StatementDownloadURL(t *testing.T) {
	ctx := context.Background()

	t.Run("returns presigned url", func(t *testing.T) {
		service, _, storage, _ := newStatementTestService(&fakeExtractor{})
		expiresAt := time.Now().Add(15 * time.Minute)
		storage.On("ObjectExists", ctx, "tenants/t/statements/key").Return(true, nil)
		storage.On("GenerateDownloadURL", ctx, "tenants/t/statements/key", 15*time.Minute).
			Return("https://storage.example.com/download/key", expiresAt, nil)

		url, expiry, err := service.StatementDownloadURL(ctx, "tenants/t/statements/key", 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "https://storage.example.com/download/key", url)
		assert.Equal(t, expiresAt, expiry)
	})

	t.Run("unknown key is not found", func(t *testing.T) {
		service, _, storage, _ := newStatementTestService(&fakeExtractor{})
		storage.On("ObjectExists", ctx, "missing").Return(false, nil)

		_, _, err := service.StatementDownloadURL(ctx, "missing", time.Minute)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
