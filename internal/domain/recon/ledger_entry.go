package recon

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taxdesk/backend/internal/domain/shared"
)

// BankAccountName is the ledger account used for the bank side of a settlement
const BankAccountName = "Bank"

// LedgerEntry is a double-entry record of money movement, created exactly once
// per accepted match. Entries are append-only: never mutated, never deleted.
type LedgerEntry struct {
	shared.BaseEntity
	TenantID      uuid.UUID       `json:"tenant_id"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	DebitAccount  string          `json:"debit_account"`
	CreditAccount string          `json:"credit_account"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID uuid.UUID       `json:"transaction_id"`
}

// NewLedgerEntryForMatch builds the ledger entry for a settled invoice.
// For a credit transaction money arrives in the bank, so the bank account is
// debited and the counterparty credited; for a debit the accounts swap.
func NewLedgerEntryForMatch(tx *BankTransaction, inv *Invoice) *LedgerEntry {
	debit := BankAccountName
	credit := tx.Counterparty
	if tx.Direction == TransactionDirectionDebit {
		debit = tx.Counterparty
		credit = BankAccountName
	}

	return &LedgerEntry{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tx.TenantID,
		Date:          tx.Date,
		Description:   fmt.Sprintf("Payment for %s", inv.InvoiceNumber),
		DebitAccount:  debit,
		CreditAccount: credit,
		Amount:        tx.Amount,
		TransactionID: tx.ID,
	}
}
