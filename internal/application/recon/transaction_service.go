package recon

import (
	"context"

	"github.com/google/uuid"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared"
)

// TransactionService handles bank transaction queries
type TransactionService struct {
	txRepo recon.BankTransactionRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(txRepo recon.BankTransactionRepository) *TransactionService {
	return &TransactionService{txRepo: txRepo}
}

// GetByID retrieves a bank transaction by ID
func (s *TransactionService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponse(tx), nil
}

// List retrieves bank transactions matching the filter
func (s *TransactionService) List(ctx context.Context, tenantID uuid.UUID, filter recon.TransactionFilter) (*shared.Paginated[TransactionResponse], error) {
	txs, total, err := s.txRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = *ToTransactionResponse(&txs[i])
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}
