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

// GormInvoiceRepository implements recon.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*recon.Invoice, error) {
	var model models.InvoiceModel
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

// FindOpenByDirection returns open invoices of one direction ordered by
// creation time, oldest first. This is the candidate scan order of the
// reconciliation pass, so the ordering here is load-bearing.
func (r *GormInvoiceRepository) FindOpenByDirection(ctx context.Context, tenantID uuid.UUID, direction recon.InvoiceDirection) ([]recon.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND direction = ? AND status IN ?",
			tenantID, direction,
			[]recon.InvoiceStatus{recon.InvoiceStatusUnpaid, recon.InvoiceStatusPartiallyPaid}).
		Order("created_at ASC, id ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]recon.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, nil
}

// FindAllForTenant finds invoices for a tenant matching the filter,
// returning the page and the total count
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter recon.InvoiceFilter) ([]recon.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID)

	if filter.Direction != nil {
		query = query.Where("direction = ?", *filter.Direction)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR party_name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoiceModels []models.InvoiceModel
	if err := applyPagination(query, filter.Filter, InvoiceSortFields).Find(&invoiceModels).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]recon.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, total, nil
}

// ExistsByNumber checks if an invoice with the given number exists for a tenant
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND invoice_number = ?", tenantID, invoiceNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *recon.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveAll creates or updates multiple invoices
func (r *GormInvoiceRepository) SaveAll(ctx context.Context, invoices []recon.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	invoiceModels := make([]*models.InvoiceModel, len(invoices))
	for i := range invoices {
		invoiceModels[i] = models.InvoiceModelFromDomain(&invoices[i])
	}
	return r.db.WithContext(ctx).Save(invoiceModels).Error
}

// applyPagination applies pagination and whitelisted ordering from a shared filter
func applyPagination(query *gorm.DB, filter shared.Filter, sortFields map[string]bool) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormInvoiceRepository implements recon.InvoiceRepository
var _ recon.InvoiceRepository = (*GormInvoiceRepository)(nil)
