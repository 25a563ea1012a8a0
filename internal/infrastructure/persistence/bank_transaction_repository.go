package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared"
	"github.com/taxdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBankTransactionRepository implements recon.BankTransactionRepository using GORM
type GormBankTransactionRepository struct {
	db *gorm.DB
}

// NewGormBankTransactionRepository creates a new GormBankTransactionRepository
func NewGormBankTransactionRepository(db *gorm.DB) *GormBankTransactionRepository {
	return &GormBankTransactionRepository{db: db}
}

// FindByIDForTenant finds a bank transaction by ID within a tenant
func (r *GormBankTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*recon.BankTransaction, error) {
	var model models.BankTransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindUnmatched returns transactions without an accepted match in creation
// order. The ordering here is load-bearing: the reconciliation pass processes
// transactions in this order.
func (r *GormBankTransactionRepository) FindUnmatched(ctx context.Context, tenantID uuid.UUID) ([]recon.BankTransaction, error) {
	var txModels []models.BankTransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND matched_invoice_id IS NULL", tenantID).
		Order("created_at ASC, id ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}

	txs := make([]recon.BankTransaction, len(txModels))
	for i, model := range txModels {
		txs[i] = *model.ToDomain()
	}
	return txs, nil
}

// FindAllForTenant finds bank transactions for a tenant matching the filter,
// returning the page and the total count
func (r *GormBankTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter recon.TransactionFilter) ([]recon.BankTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BankTransactionModel{}).Where("tenant_id = ?", tenantID)

	if filter.Direction != nil {
		query = query.Where("direction = ?", *filter.Direction)
	}
	if filter.Matched != nil {
		if *filter.Matched {
			query = query.Where("matched_invoice_id IS NOT NULL")
		} else {
			query = query.Where("matched_invoice_id IS NULL")
		}
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ? OR ref_no ILIKE ? OR counterparty ILIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txModels []models.BankTransactionModel
	if err := applyPagination(query, filter.Filter, TransactionSortFields).Find(&txModels).Error; err != nil {
		return nil, 0, err
	}

	txs := make([]recon.BankTransaction, len(txModels))
	for i, model := range txModels {
		txs[i] = *model.ToDomain()
	}
	return txs, total, nil
}

// Save creates or updates a bank transaction
func (r *GormBankTransactionRepository) Save(ctx context.Context, tx *recon.BankTransaction) error {
	model := models.BankTransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveAll creates or updates multiple bank transactions
func (r *GormBankTransactionRepository) SaveAll(ctx context.Context, txs []recon.BankTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	txModels := make([]*models.BankTransactionModel, len(txs))
	for i := range txs {
		txModels[i] = models.BankTransactionModelFromDomain(&txs[i])
	}
	return r.db.WithContext(ctx).Save(txModels).Error
}

// Ensure GormBankTransactionRepository implements recon.BankTransactionRepository
var _ recon.BankTransactionRepository = (*GormBankTransactionRepository)(nil)
