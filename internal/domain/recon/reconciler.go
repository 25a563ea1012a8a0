package recon

import (
	"github.com/taxdesk/backend/internal/domain/shared"
)

// ManualMatchScore is the score recorded when an operator accepts a match by
// hand, overriding whatever the scorer would have produced.
const ManualMatchScore = 100

// Thresholds holds the score boundaries that classify a best candidate.
// A best score at or above AutoAccept settles the invoice without review; one
// at or above Suggest but below AutoAccept is surfaced as a suggestion.
type Thresholds struct {
	AutoAccept int
	Suggest    int
}

// DefaultThresholds returns the stock classification boundaries
func DefaultThresholds() Thresholds {
	return Thresholds{
		AutoAccept: 92,
		Suggest:    60,
	}
}

// Validate checks that the thresholds form a sane ordering
func (t Thresholds) Validate() error {
	if t.Suggest < 0 || t.AutoAccept > MaxScore {
		return shared.NewDomainError("INVALID_THRESHOLDS", "Thresholds must lie within the score range")
	}
	if t.Suggest > t.AutoAccept {
		return shared.NewDomainError("INVALID_THRESHOLDS", "Suggest threshold cannot exceed auto-accept threshold")
	}
	return nil
}

// RunResult is the outcome of one reconciliation pass. Transactions and
// Invoices are updated snapshots; the caller replaces its own copies with
// them and appends LedgerEntries to its ledger. Inputs are never mutated.
type RunResult struct {
	Transactions  []BankTransaction
	Invoices      []Invoice
	LedgerEntries []*LedgerEntry
	Accepted      int
	Suggested     int
	Unmatched     int
	Skipped       int
}

// Reconciler runs the transaction-to-invoice matching pass. It holds no state
// between runs and performs no I/O; everything it needs arrives as snapshots.
type Reconciler struct {
	scorer     *MatchScorer
	thresholds Thresholds
}

// NewReconciler creates a reconciler with the given scorer and thresholds
func NewReconciler(scorer *MatchScorer, thresholds Thresholds) (*Reconciler, error) {
	if scorer == nil {
		return nil, shared.NewDomainError("INVALID_SCORER", "Match scorer cannot be nil")
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &Reconciler{scorer: scorer, thresholds: thresholds}, nil
}

// NewDefaultReconciler creates a reconciler with stock scorer and thresholds
func NewDefaultReconciler() *Reconciler {
	r, _ := NewReconciler(NewDefaultMatchScorer(), DefaultThresholds())
	return r
}

// Score exposes the underlying scorer for a single pair
func (r *Reconciler) Score(tx *BankTransaction, inv *Invoice) int {
	return r.scorer.Score(tx, inv)
}

// Run scores every unmatched transaction against the open invoices of its
// matching side (credits against sales, debits against purchases) and
// classifies the best candidate per transaction.
//
// Invoices are scanned in store order and ties break to the earliest maximal
// scorer. Accepted matches settle the invoice immediately, so a later
// transaction in the same pass can no longer claim it. Re-running on the
// returned snapshots is a no-op: matched transactions are skipped and paid
// invoices are never candidates.
func (r *Reconciler) Run(transactions []BankTransaction, invoices []Invoice) *RunResult {
	result := &RunResult{
		Transactions:  make([]BankTransaction, len(transactions)),
		Invoices:      make([]Invoice, len(invoices)),
		LedgerEntries: make([]*LedgerEntry, 0),
	}
	copy(result.Transactions, transactions)
	copy(result.Invoices, invoices)

	for i := range result.Transactions {
		tx := &result.Transactions[i]
		if tx.IsMatched() {
			result.Skipped++
			continue
		}

		wantDirection := tx.Direction.InvoiceDirection()
		bestScore := -1
		bestIdx := -1
		for j := range result.Invoices {
			inv := &result.Invoices[j]
			if inv.Direction != wantDirection || !inv.IsOpen() {
				continue
			}
			if score := r.scorer.Score(tx, inv); score > bestScore {
				bestScore = score
				bestIdx = j
			}
		}

		if bestIdx < 0 {
			result.Unmatched++
			continue
		}

		inv := &result.Invoices[bestIdx]
		switch {
		case bestScore >= r.thresholds.AutoAccept:
			// Order matters: the invoice flips to PAID before later
			// transactions scan the candidate set.
			if err := inv.MarkPaid(tx.ID); err != nil {
				result.Unmatched++
				continue
			}
			if err := tx.RecordMatch(inv.ID, bestScore, false); err != nil {
				result.Unmatched++
				continue
			}
			result.LedgerEntries = append(result.LedgerEntries, NewLedgerEntryForMatch(tx, inv))
			result.Accepted++
		case bestScore >= r.thresholds.Suggest:
			if err := tx.RecordSuggestion(inv.ID, bestScore); err != nil {
				result.Unmatched++
				continue
			}
			result.Suggested++
		default:
			result.Unmatched++
		}
	}

	return result
}

// AcceptManualMatch applies an operator-confirmed match between a transaction
// and an invoice, bypassing the scorer. The recorded score is fixed at
// ManualMatchScore and the invoice receives the same settlement side effects
// as an auto-accepted match: it flips to PAID and one ledger entry is
// produced for the caller to append.
func (r *Reconciler) AcceptManualMatch(tx *BankTransaction, inv *Invoice) (*LedgerEntry, error) {
	if tx == nil || inv == nil {
		return nil, shared.ErrInvalidInput
	}
	if tx.IsMatched() {
		return nil, shared.ErrAlreadyMatched
	}
	if !inv.IsOpen() {
		return nil, shared.ErrInvoiceNotOpen
	}

	if err := inv.MarkPaid(tx.ID); err != nil {
		return nil, err
	}
	if err := tx.RecordMatch(inv.ID, ManualMatchScore, true); err != nil {
		return nil, err
	}

	return NewLedgerEntryForMatch(tx, inv), nil
}
