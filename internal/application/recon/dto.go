package recon

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taxdesk/backend/internal/domain/recon"
)

// =============================================================================
// Invoice DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to record a new invoice
type CreateInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required,min=1,max=50"`
	InvoiceDate   string          `json:"invoice_date" binding:"required"`
	Direction     string          `json:"direction" binding:"required,oneof=SALES PURCHASE"`
	PartyName     string          `json:"party_name" binding:"required,min=1,max=200"`
	PartyGSTIN    string          `json:"party_gstin" binding:"max=15"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	TotalAmount   decimal.Decimal `json:"total_amount" binding:"required"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID                   uuid.UUID       `json:"id"`
	TenantID             uuid.UUID       `json:"tenant_id"`
	InvoiceNumber        string          `json:"invoice_number"`
	InvoiceDate          time.Time       `json:"invoice_date"`
	Direction            string          `json:"direction"`
	PartyName            string          `json:"party_name"`
	PartyGSTIN           string          `json:"party_gstin,omitempty"`
	TaxableValue         decimal.Decimal `json:"taxable_value"`
	CGST                 decimal.Decimal `json:"cgst"`
	SGST                 decimal.Decimal `json:"sgst"`
	IGST                 decimal.Decimal `json:"igst"`
	TaxTotal             decimal.Decimal `json:"tax_total"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	Status               string          `json:"status"`
	MatchedTransactionID *uuid.UUID      `json:"matched_transaction_id,omitempty"`
	PaidAt               *time.Time      `json:"paid_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ToInvoiceResponse converts an invoice aggregate to a response DTO
func ToInvoiceResponse(inv *recon.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:                   inv.ID,
		TenantID:             inv.TenantID,
		InvoiceNumber:        inv.InvoiceNumber,
		InvoiceDate:          inv.InvoiceDate,
		Direction:            string(inv.Direction),
		PartyName:            inv.PartyName,
		PartyGSTIN:           inv.PartyGSTIN,
		TaxableValue:         inv.TaxableValue,
		CGST:                 inv.CGST,
		SGST:                 inv.SGST,
		IGST:                 inv.IGST,
		TaxTotal:             inv.TaxTotal(),
		TotalAmount:          inv.TotalAmount,
		Status:               string(inv.Status),
		MatchedTransactionID: inv.MatchedTransactionID,
		PaidAt:               inv.PaidAt,
		CreatedAt:            inv.CreatedAt,
		UpdatedAt:            inv.UpdatedAt,
	}
}

// =============================================================================
// Bank Transaction DTOs
// =============================================================================

// TransactionResponse represents a bank transaction in API responses
type TransactionResponse struct {
	ID                 uuid.UUID        `json:"id"`
	TenantID           uuid.UUID        `json:"tenant_id"`
	Date               time.Time        `json:"date"`
	Direction          string           `json:"direction"`
	Description        string           `json:"description"`
	RefNo              string           `json:"ref_no,omitempty"`
	Amount             decimal.Decimal  `json:"amount"`
	Counterparty       string           `json:"counterparty,omitempty"`
	CounterpartyGSTIN  string           `json:"counterparty_gstin,omitempty"`
	Balance            *decimal.Decimal `json:"balance,omitempty"`
	MatchedInvoiceID   *uuid.UUID       `json:"matched_invoice_id,omitempty"`
	MatchScore         *int             `json:"match_score,omitempty"`
	SuggestedInvoiceID *uuid.UUID       `json:"suggested_invoice_id,omitempty"`
	SuggestedScore     *int             `json:"suggested_score,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// ToTransactionResponse converts a bank transaction aggregate to a response DTO
func ToTransactionResponse(tx *recon.BankTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                 tx.ID,
		TenantID:           tx.TenantID,
		Date:               tx.Date,
		Direction:          string(tx.Direction),
		Description:        tx.Description,
		RefNo:              tx.RefNo,
		Amount:             tx.Amount,
		Counterparty:       tx.Counterparty,
		CounterpartyGSTIN:  tx.CounterpartyGSTIN,
		Balance:            tx.Balance,
		MatchedInvoiceID:   tx.MatchedInvoiceID,
		MatchScore:         tx.MatchScore,
		SuggestedInvoiceID: tx.SuggestedInvoiceID,
		SuggestedScore:     tx.SuggestedScore,
		CreatedAt:          tx.CreatedAt,
		UpdatedAt:          tx.UpdatedAt,
	}
}

// =============================================================================
// Ledger DTOs
// =============================================================================

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	DebitAccount  string          `json:"debit_account"`
	CreditAccount string          `json:"credit_account"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToLedgerEntryResponse converts a ledger entry to a response DTO
func ToLedgerEntryResponse(entry *recon.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:            entry.ID,
		TenantID:      entry.TenantID,
		Date:          entry.Date,
		Description:   entry.Description,
		DebitAccount:  entry.DebitAccount,
		CreditAccount: entry.CreditAccount,
		Amount:        entry.Amount,
		TransactionID: entry.TransactionID,
		CreatedAt:     entry.CreatedAt,
	}
}

// =============================================================================
// Reconciliation DTOs
// =============================================================================

// AcceptMatchRequest represents an operator confirming a match by hand
type AcceptMatchRequest struct {
	InvoiceID uuid.UUID `json:"invoice_id" binding:"required"`
}

// AcceptMatchResponse returns the settled pair after a manual accept
type AcceptMatchResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Invoice     *InvoiceResponse     `json:"invoice"`
	LedgerEntry *LedgerEntryResponse `json:"ledger_entry"`
}

// RunReconciliationResponse summarizes one reconciliation pass
type RunReconciliationResponse struct {
	Accepted      int `json:"accepted"`
	Suggested     int `json:"suggested"`
	Unmatched     int `json:"unmatched"`
	Skipped       int `json:"skipped"`
	LedgerEntries int `json:"ledger_entries"`
}
