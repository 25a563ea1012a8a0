package recon

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taxdesk/backend/internal/domain/shared"
	"github.com/taxdesk/backend/internal/domain/shared/valueobject"
)

// InvoiceDirection distinguishes sales (outgoing) from purchase (incoming) invoices
type InvoiceDirection string

const (
	InvoiceDirectionSales    InvoiceDirection = "SALES"
	InvoiceDirectionPurchase InvoiceDirection = "PURCHASE"
)

// IsValid checks if the direction is valid
func (d InvoiceDirection) IsValid() bool {
	return d == InvoiceDirectionSales || d == InvoiceDirectionPurchase
}

// String returns the string representation
func (d InvoiceDirection) String() string {
	return string(d)
}

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusUnpaid        InvoiceStatus = "UNPAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPaid, InvoiceStatusPartiallyPaid:
		return true
	}
	return false
}

// String returns the string representation
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsOpen returns true if the invoice can still be matched against a bank
// transaction. Paid invoices are never match candidates.
func (s InvoiceStatus) IsOpen() bool {
	return s == InvoiceStatusUnpaid || s == InvoiceStatusPartiallyPaid
}

// Invoice represents a sales or purchase invoice aggregate root.
// Invoices are created by document ingestion (CSV import or statement
// extraction) and settled by the reconciliation pass.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber        string           `json:"invoice_number"`
	InvoiceDate          time.Time        `json:"invoice_date"`
	Direction            InvoiceDirection `json:"direction"`
	PartyName            string           `json:"party_name"`
	PartyGSTIN           string           `json:"party_gstin,omitempty"`
	TaxableValue         decimal.Decimal  `json:"taxable_value"`
	CGST                 decimal.Decimal  `json:"cgst"`
	SGST                 decimal.Decimal  `json:"sgst"`
	IGST                 decimal.Decimal  `json:"igst"`
	TotalAmount          decimal.Decimal  `json:"total_amount"`
	Status               InvoiceStatus    `json:"status"`
	MatchedTransactionID *uuid.UUID       `json:"matched_transaction_id,omitempty"`
	PaidAt               *time.Time       `json:"paid_at,omitempty"`
}

// NewInvoice creates a new invoice.
// The total is trusted as stored; reconciling it against taxable value plus
// tax components is the extraction pipeline's responsibility.
func NewInvoice(
	tenantID uuid.UUID,
	invoiceNumber string,
	invoiceDate time.Time,
	direction InvoiceDirection,
	partyName string,
	partyGSTIN string,
	taxableValue decimal.Decimal,
	cgst, sgst, igst decimal.Decimal,
	totalAmount valueobject.Money,
) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Invoice direction is not valid")
	}
	if partyName == "" {
		return nil, shared.NewDomainError("INVALID_PARTY_NAME", "Party name cannot be empty")
	}
	if totalAmount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		InvoiceDate:         invoiceDate,
		Direction:           direction,
		PartyName:           partyName,
		PartyGSTIN:          partyGSTIN,
		TaxableValue:        taxableValue,
		CGST:                cgst,
		SGST:                sgst,
		IGST:                igst,
		TotalAmount:         totalAmount.Amount(),
		Status:              InvoiceStatusUnpaid,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// MarkPaid settles the invoice against the given bank transaction.
// Only the reconciliation pass (automatic or manual accept) calls this.
func (inv *Invoice) MarkPaid(transactionID uuid.UUID) error {
	if !inv.Status.IsOpen() {
		return shared.NewDomainError("INVOICE_NOT_OPEN", fmt.Sprintf("Cannot settle invoice in %s status", inv.Status))
	}
	if transactionID == uuid.Nil {
		return shared.NewDomainError("INVALID_TRANSACTION", "Transaction ID cannot be empty")
	}

	now := time.Now()
	inv.Status = InvoiceStatusPaid
	inv.MatchedTransactionID = &transactionID
	inv.PaidAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoicePaidEvent(inv, transactionID))

	return nil
}

// IsOpen returns true if the invoice is still a match candidate
func (inv *Invoice) IsOpen() bool {
	return inv.Status.IsOpen()
}

// GetTotalAmountMoney returns the total amount as Money
func (inv *Invoice) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(inv.TotalAmount)
}

// TaxTotal returns the sum of the three GST components
func (inv *Invoice) TaxTotal() decimal.Decimal {
	return inv.CGST.Add(inv.SGST).Add(inv.IGST)
}
