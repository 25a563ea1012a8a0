package recon

import (
	"context"

	"github.com/google/uuid"
	"github.com/taxdesk/backend/internal/domain/shared"
)

// InvoiceFilter narrows invoice queries
type InvoiceFilter struct {
	shared.Filter
	Direction *InvoiceDirection
	Status    *InvoiceStatus
}

// TransactionFilter narrows bank transaction queries
type TransactionFilter struct {
	shared.Filter
	Direction *TransactionDirection
	Matched   *bool
}

// InvoiceRepository persists invoices
type InvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	// FindOpenByDirection returns open (non-paid) invoices of one direction in
	// creation order, which is the candidate scan order of the reconciler.
	FindOpenByDirection(ctx context.Context, tenantID uuid.UUID, direction InvoiceDirection) ([]Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) ([]Invoice, int64, error)
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (bool, error)
	Save(ctx context.Context, invoice *Invoice) error
	SaveAll(ctx context.Context, invoices []Invoice) error
}

// BankTransactionRepository persists bank transactions
type BankTransactionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*BankTransaction, error)
	// FindUnmatched returns transactions without an accepted match in
	// creation order, the order the reconciler processes them in.
	FindUnmatched(ctx context.Context, tenantID uuid.UUID) ([]BankTransaction, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) ([]BankTransaction, int64, error)
	Save(ctx context.Context, tx *BankTransaction) error
	SaveAll(ctx context.Context, txs []BankTransaction) error
}

// LedgerEntryRepository persists the append-only ledger
type LedgerEntryRepository interface {
	AppendAll(ctx context.Context, entries []*LedgerEntry) error
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LedgerEntry, int64, error)
	ExistsForTransaction(ctx context.Context, tenantID, transactionID uuid.UUID) (bool, error)
}
