package recon

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taxdesk/backend/internal/domain/shared"
	"github.com/taxdesk/backend/internal/domain/shared/valueobject"
)

// TransactionDirection distinguishes money received from money paid out
type TransactionDirection string

const (
	TransactionDirectionCredit TransactionDirection = "CREDIT"
	TransactionDirectionDebit  TransactionDirection = "DEBIT"
)

// IsValid checks if the direction is valid
func (d TransactionDirection) IsValid() bool {
	return d == TransactionDirectionCredit || d == TransactionDirectionDebit
}

// String returns the string representation
func (d TransactionDirection) String() string {
	return string(d)
}

// InvoiceDirection returns the invoice side this transaction direction settles:
// credits settle sales invoices, debits settle purchase invoices.
func (d TransactionDirection) InvoiceDirection() InvoiceDirection {
	if d == TransactionDirectionCredit {
		return InvoiceDirectionSales
	}
	return InvoiceDirectionPurchase
}

// BankTransaction represents one line of an ingested bank statement.
// Transactions are created by statement extraction and mutated only by the
// reconciliation pass, which records matches and suggestions on them.
type BankTransaction struct {
	shared.TenantAggregateRoot
	Date               time.Time            `json:"date"`
	Direction          TransactionDirection `json:"direction"`
	Description        string               `json:"description"`
	RefNo              string               `json:"ref_no"`
	Amount             decimal.Decimal      `json:"amount"`
	Counterparty       string               `json:"counterparty"`
	CounterpartyGSTIN  string               `json:"counterparty_gstin,omitempty"`
	Balance            *decimal.Decimal     `json:"balance,omitempty"`
	MatchedInvoiceID   *uuid.UUID           `json:"matched_invoice_id,omitempty"`
	MatchScore         *int                 `json:"match_score,omitempty"`
	SuggestedInvoiceID *uuid.UUID           `json:"suggested_invoice_id,omitempty"`
	SuggestedScore     *int                 `json:"suggested_score,omitempty"`
}

// NewBankTransaction creates a new bank transaction
func NewBankTransaction(
	tenantID uuid.UUID,
	date time.Time,
	direction TransactionDirection,
	description string,
	refNo string,
	amount valueobject.Money,
	counterparty string,
	counterpartyGSTIN string,
	balance *decimal.Decimal,
) (*BankTransaction, error) {
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Transaction direction is not valid")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}

	return &BankTransaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Date:                date,
		Direction:           direction,
		Description:         description,
		RefNo:               refNo,
		Amount:              amount.Amount(),
		Counterparty:        counterparty,
		CounterpartyGSTIN:   counterpartyGSTIN,
		Balance:             balance,
	}, nil
}

// IsMatched returns true if the transaction already carries an accepted match
func (tx *BankTransaction) IsMatched() bool {
	return tx.MatchedInvoiceID != nil
}

// RecordMatch records an accepted match on the transaction.
// An existing accepted match is never overwritten; re-running the
// reconciliation pass skips matched transactions entirely.
func (tx *BankTransaction) RecordMatch(invoiceID uuid.UUID, score int, manual bool) error {
	if tx.IsMatched() {
		return shared.ErrAlreadyMatched
	}
	if invoiceID == uuid.Nil {
		return shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}

	tx.MatchedInvoiceID = &invoiceID
	tx.MatchScore = &score
	tx.SuggestedInvoiceID = nil
	tx.SuggestedScore = nil
	tx.UpdatedAt = time.Now()
	tx.IncrementVersion()

	tx.AddDomainEvent(NewTransactionMatchedEvent(tx, invoiceID, score, manual))

	return nil
}

// RecordSuggestion records a below-threshold candidate for human review.
// The invoice itself is left untouched.
func (tx *BankTransaction) RecordSuggestion(invoiceID uuid.UUID, score int) error {
	if tx.IsMatched() {
		return shared.ErrAlreadyMatched
	}
	if invoiceID == uuid.Nil {
		return shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}

	tx.SuggestedInvoiceID = &invoiceID
	tx.SuggestedScore = &score
	tx.UpdatedAt = time.Now()
	tx.IncrementVersion()

	return nil
}

// GetAmountMoney returns the amount as Money
func (tx *BankTransaction) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(tx.Amount)
}
