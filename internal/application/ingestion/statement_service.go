package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared"
	"github.com/taxdesk/backend/internal/domain/shared/valueobject"
	"github.com/taxdesk/backend/internal/infrastructure/extraction"
	"go.uber.org/zap"
)

// statementDedupeTTL is how long an uploaded statement's content hash blocks
// re-imports of the same file.
const statementDedupeTTL = 7 * 24 * time.Hour

// ErrDuplicateStatement is returned when the same statement content was
// already imported for the tenant.
var ErrDuplicateStatement = shared.NewDomainError("DUPLICATE_STATEMENT", "This statement has already been imported")

// StatementService imports bank statements: the raw file is archived, the
// text is run through extraction and the recognized lines become bank
// transactions.
type StatementService struct {
	txRepo      recon.BankTransactionRepository
	extractor   extraction.StatementExtractor
	storage     DocumentStorage
	idempotency shared.IdempotencyStore
	logger      *zap.Logger
}

// NewStatementService creates a new StatementService
func NewStatementService(
	txRepo recon.BankTransactionRepository,
	extractor extraction.StatementExtractor,
	storage DocumentStorage,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *StatementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatementService{
		txRepo:      txRepo,
		extractor:   extractor,
		storage:     storage,
		idempotency: idempotency,
		logger:      logger,
	}
}

// ImportStatement processes one uploaded statement for a tenant. Re-uploading
// the same content is rejected, so a flaky client retrying an upload cannot
// duplicate transactions.
func (s *StatementService) ImportStatement(ctx context.Context, tenantID uuid.UUID, req ImportStatementRequest) (*ImportStatementResponse, error) {
	if len(req.Content) == 0 {
		return nil, shared.NewDomainError("EMPTY_STATEMENT", "Statement file is empty")
	}

	hash := sha256.Sum256(req.Content)
	dedupeKey := fmt.Sprintf("statement:%s:%s", tenantID, hex.EncodeToString(hash[:]))
	fresh, err := s.idempotency.MarkProcessed(ctx, dedupeKey, statementDedupeTTL)
	if err != nil {
		return nil, err
	}
	if !fresh {
		return nil, ErrDuplicateStatement
	}

	storageKey := fmt.Sprintf("tenants/%s/statements/%s/%s", tenantID, uuid.New(), req.FileName)
	contentType := req.ContentType
	if contentType == "" {
		contentType = "text/plain"
	}
	if err := s.storage.Upload(ctx, storageKey, req.Content, contentType); err != nil {
		return nil, err
	}

	extracted, err := s.extractor.ExtractStatement(ctx, string(req.Content))
	if err != nil {
		return nil, err
	}

	txs := make([]recon.BankTransaction, 0, len(extracted.Transactions))
	skipped := 0
	for _, line := range extracted.Transactions {
		tx, err := recon.NewBankTransaction(
			tenantID,
			line.Date,
			recon.TransactionDirection(line.Direction),
			line.Description,
			line.RefNo,
			valueobject.NewMoneyINR(line.Amount),
			line.Counterparty,
			line.GSTIN,
			line.Balance,
		)
		if err != nil {
			// One unparseable line does not sink the statement.
			s.logger.Warn("skipping extracted statement line",
				zap.String("tenant_id", tenantID.String()),
				zap.String("ref_no", line.RefNo),
				zap.Error(err))
			skipped++
			continue
		}
		txs = append(txs, *tx)
	}

	if err := s.txRepo.SaveAll(ctx, txs); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(txs))
	for i := range txs {
		ids[i] = txs[i].ID
	}

	s.logger.Info("statement imported",
		zap.String("tenant_id", tenantID.String()),
		zap.String("storage_key", storageKey),
		zap.Int("imported", len(txs)),
		zap.Int("skipped", skipped))

	return &ImportStatementResponse{
		StorageKey:     storageKey,
		BankName:       extracted.BankName,
		AccountNumber:  extracted.AccountNumber,
		Imported:       len(txs),
		Skipped:        skipped,
		TransactionIDs: ids,
	}, nil
}

// StatementDownloadURL returns a presigned URL for a previously archived
// statement file.
func (s *StatementService) StatementDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return "", time.Time{}, err
	}
	if !exists {
		return "", time.Time{}, shared.ErrNotFound
	}
	return s.storage.GenerateDownloadURL(ctx, storageKey, expiresIn)
}
