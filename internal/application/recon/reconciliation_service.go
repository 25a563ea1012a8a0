package recon

import (
	"context"

	"github.com/google/uuid"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared"
)

// ReconciliationService runs the matching pass and applies manual accepts.
// The domain reconciler is pure; this service owns loading the snapshots and
// persisting the outcome.
type ReconciliationService struct {
	invoiceRepo recon.InvoiceRepository
	txRepo      recon.BankTransactionRepository
	ledgerRepo  recon.LedgerEntryRepository
	reconciler  *recon.Reconciler
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	invoiceRepo recon.InvoiceRepository,
	txRepo recon.BankTransactionRepository,
	ledgerRepo recon.LedgerEntryRepository,
	reconciler *recon.Reconciler,
) *ReconciliationService {
	return &ReconciliationService{
		invoiceRepo: invoiceRepo,
		txRepo:      txRepo,
		ledgerRepo:  ledgerRepo,
		reconciler:  reconciler,
	}
}

// Run executes one reconciliation pass for a tenant. Unmatched transactions
// are scored against open invoices, matches at or above the auto-accept
// threshold settle immediately, and near misses are recorded as suggestions.
// Running twice in a row is a no-op for the second pass.
func (s *ReconciliationService) Run(ctx context.Context, tenantID uuid.UUID) (*RunReconciliationResponse, error) {
	transactions, err := s.txRepo.FindUnmatched(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	sales, err := s.invoiceRepo.FindOpenByDirection(ctx, tenantID, recon.InvoiceDirectionSales)
	if err != nil {
		return nil, err
	}
	purchases, err := s.invoiceRepo.FindOpenByDirection(ctx, tenantID, recon.InvoiceDirectionPurchase)
	if err != nil {
		return nil, err
	}
	invoices := append(sales, purchases...)

	result := s.reconciler.Run(transactions, invoices)

	if err := s.invoiceRepo.SaveAll(ctx, result.Invoices); err != nil {
		return nil, err
	}
	if err := s.txRepo.SaveAll(ctx, result.Transactions); err != nil {
		return nil, err
	}

	entries, err := s.filterNewEntries(ctx, tenantID, result.LedgerEntries)
	if err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.AppendAll(ctx, entries); err != nil {
		return nil, err
	}

	return &RunReconciliationResponse{
		Accepted:      result.Accepted,
		Suggested:     result.Suggested,
		Unmatched:     result.Unmatched,
		Skipped:       result.Skipped,
		LedgerEntries: len(entries),
	}, nil
}

// AcceptMatch applies an operator-confirmed match between a transaction and
// an invoice. The scorer is bypassed and the recorded score is fixed, but the
// settlement side effects are identical to an auto-accepted match.
func (s *ReconciliationService) AcceptMatch(ctx context.Context, tenantID, transactionID uuid.UUID, req AcceptMatchRequest) (*AcceptMatchResponse, error) {
	tx, err := s.txRepo.FindByIDForTenant(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	// An operator can override the score but not the accounting side: a
	// credit settles sales invoices, a debit settles purchase invoices.
	if tx.Direction.InvoiceDirection() != inv.Direction {
		return nil, shared.NewDomainError("DIRECTION_MISMATCH", "Transaction direction does not match invoice direction")
	}

	entry, err := s.reconciler.AcceptManualMatch(tx, inv)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}

	entries, err := s.filterNewEntries(ctx, tenantID, []*recon.LedgerEntry{entry})
	if err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.AppendAll(ctx, entries); err != nil {
		return nil, err
	}

	return &AcceptMatchResponse{
		Transaction: ToTransactionResponse(tx),
		Invoice:     ToInvoiceResponse(inv),
		LedgerEntry: ToLedgerEntryResponse(entry),
	}, nil
}

// filterNewEntries drops entries whose transaction already has a ledger
// entry. This guards the append-only ledger against a retried pass after a
// partial persist.
func (s *ReconciliationService) filterNewEntries(ctx context.Context, tenantID uuid.UUID, entries []*recon.LedgerEntry) ([]*recon.LedgerEntry, error) {
	fresh := make([]*recon.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		exists, err := s.ledgerRepo.ExistsForTransaction(ctx, tenantID, entry.TransactionID)
		if err != nil {
			return nil, err
		}
		if !exists {
			fresh = append(fresh, entry)
		}
	}
	return fresh, nil
}
