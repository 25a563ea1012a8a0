package extraction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ExtractedTransaction is one bank statement line as recognized by the
// extraction model, before any domain validation.
type ExtractedTransaction struct {
	Date         time.Time
	Direction    string // CREDIT or DEBIT
	Description  string
	RefNo        string
	Amount       decimal.Decimal
	Counterparty string
	GSTIN        string
	Balance      *decimal.Decimal
}

// ExtractedStatement is the result of extracting one uploaded statement.
type ExtractedStatement struct {
	BankName      string
	AccountNumber string
	Transactions  []ExtractedTransaction
}

// StatementExtractor turns raw statement text into structured transactions.
type StatementExtractor interface {
	ExtractStatement(ctx context.Context, rawText string) (*ExtractedStatement, error)
}
