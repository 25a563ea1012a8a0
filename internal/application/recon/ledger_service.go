package recon

import (
	"context"

	"github.com/google/uuid"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared"
)

// LedgerService handles queries over the append-only ledger
type LedgerService struct {
	ledgerRepo recon.LedgerEntryRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(ledgerRepo recon.LedgerEntryRepository) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo}
}

// List retrieves ledger entries for a tenant
func (s *LedgerService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[LedgerEntryResponse], error) {
	entries, total, err := s.ledgerRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = *ToLedgerEntryResponse(&entries[i])
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}
