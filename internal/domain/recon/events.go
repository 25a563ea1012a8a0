package recon

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taxdesk/backend/internal/domain/shared"
)

// InvoiceCreatedEvent is raised when a new invoice enters the books
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID        `json:"invoice_id"`
	InvoiceNumber string           `json:"invoice_number"`
	Direction     InvoiceDirection `json:"direction"`
	PartyName     string           `json:"party_name"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return "InvoiceCreated"
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCreated", "Invoice", inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Direction:       inv.Direction,
		PartyName:       inv.PartyName,
		TotalAmount:     inv.TotalAmount,
	}
}

// InvoicePaidEvent is raised when an invoice is settled against a bank transaction
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return "InvoicePaid"
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice, transactionID uuid.UUID) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaid", "Invoice", inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		TransactionID:   transactionID,
		TotalAmount:     inv.TotalAmount,
	}
}

// TransactionMatchedEvent is raised when a bank transaction is matched to an invoice,
// either automatically or through manual acceptance
type TransactionMatchedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID `json:"transaction_id"`
	InvoiceID     uuid.UUID `json:"invoice_id"`
	Score         int       `json:"score"`
	Manual        bool      `json:"manual"`
}

// EventType returns the event type name
func (e *TransactionMatchedEvent) EventType() string {
	return "TransactionMatched"
}

// NewTransactionMatchedEvent creates a new TransactionMatchedEvent
func NewTransactionMatchedEvent(tx *BankTransaction, invoiceID uuid.UUID, score int, manual bool) *TransactionMatchedEvent {
	return &TransactionMatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransactionMatched", "BankTransaction", tx.ID, tx.TenantID),
		TransactionID:   tx.ID,
		InvoiceID:       invoiceID,
		Score:           score,
		Manual:          manual,
	}
}
