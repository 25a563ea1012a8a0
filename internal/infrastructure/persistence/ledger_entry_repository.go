package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared"
	"github.com/taxdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements recon.LedgerEntryRepository using GORM.
// The ledger is append-only, so this repository has no update or delete path.
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// AppendAll inserts the given ledger entries
func (r *GormLedgerEntryRepository) AppendAll(ctx context.Context, entries []*recon.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	entryModels := make([]*models.LedgerEntryModel, len(entries))
	for i, e := range entries {
		entryModels[i] = models.LedgerEntryModelFromDomain(e)
	}
	return r.db.WithContext(ctx).Create(entryModels).Error
}

// FindAllForTenant finds ledger entries for a tenant, returning the page and
// the total count
func (r *GormLedgerEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]recon.LedgerEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ? OR debit_account ILIKE ? OR credit_account ILIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entryModels []models.LedgerEntryModel
	if err := applyPagination(query, filter, LedgerEntrySortFields).Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]recon.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, total, nil
}

// ExistsForTransaction reports whether a ledger entry already references the
// transaction. The reconciliation pass uses this to stay idempotent across
// retries that happen after a partial persist.
func (r *GormLedgerEntryRepository) ExistsForTransaction(ctx context.Context, tenantID, transactionID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("tenant_id = ? AND transaction_id = ?", tenantID, transactionID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormLedgerEntryRepository implements recon.LedgerEntryRepository
var _ recon.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)
