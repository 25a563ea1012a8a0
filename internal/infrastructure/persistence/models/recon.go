package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared"
)

// InvoiceModel is the persistence model for the Invoice domain entity.
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber        string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	InvoiceDate          time.Time              `gorm:"not null;index"`
	Direction            recon.InvoiceDirection `gorm:"type:varchar(10);not null;index"`
	PartyName            string                 `gorm:"type:varchar(200);not null"`
	PartyGSTIN           string                 `gorm:"type:varchar(20)"`
	TaxableValue         decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	CGST                 decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	SGST                 decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	IGST                 decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount          decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Status               recon.InvoiceStatus    `gorm:"type:varchar(20);not null;default:'UNPAID';index"`
	MatchedTransactionID *uuid.UUID             `gorm:"type:uuid;index"`
	PaidAt               *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *recon.Invoice {
	inv := &recon.Invoice{
		InvoiceNumber:        m.InvoiceNumber,
		InvoiceDate:          m.InvoiceDate,
		Direction:            m.Direction,
		PartyName:            m.PartyName,
		PartyGSTIN:           m.PartyGSTIN,
		TaxableValue:         m.TaxableValue,
		CGST:                 m.CGST,
		SGST:                 m.SGST,
		IGST:                 m.IGST,
		TotalAmount:          m.TotalAmount,
		Status:               m.Status,
		MatchedTransactionID: m.MatchedTransactionID,
		PaidAt:               m.PaidAt,
	}
	m.PopulateTenantAggregateRoot(&inv.TenantAggregateRoot)
	return inv
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *recon.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.InvoiceDate = inv.InvoiceDate
	m.Direction = inv.Direction
	m.PartyName = inv.PartyName
	m.PartyGSTIN = inv.PartyGSTIN
	m.TaxableValue = inv.TaxableValue
	m.CGST = inv.CGST
	m.SGST = inv.SGST
	m.IGST = inv.IGST
	m.TotalAmount = inv.TotalAmount
	m.Status = inv.Status
	m.MatchedTransactionID = inv.MatchedTransactionID
	m.PaidAt = inv.PaidAt
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(inv *recon.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// BankTransactionModel is the persistence model for the BankTransaction domain entity.
type BankTransactionModel struct {
	TenantAggregateModel
	Date               time.Time                  `gorm:"not null;index"`
	Direction          recon.TransactionDirection `gorm:"type:varchar(10);not null;index"`
	Description        string                     `gorm:"type:text"`
	RefNo              string                     `gorm:"type:varchar(100);index"`
	Amount             decimal.Decimal            `gorm:"type:decimal(18,2);not null"`
	Counterparty       string                     `gorm:"type:varchar(200)"`
	CounterpartyGSTIN  string                     `gorm:"type:varchar(20)"`
	Balance            *decimal.Decimal           `gorm:"type:decimal(18,2)"`
	MatchedInvoiceID   *uuid.UUID                 `gorm:"type:uuid;index"`
	MatchScore         *int
	SuggestedInvoiceID *uuid.UUID `gorm:"type:uuid"`
	SuggestedScore     *int
}

// TableName returns the table name for GORM
func (BankTransactionModel) TableName() string {
	return "bank_transactions"
}

// ToDomain converts the persistence model to a domain BankTransaction entity.
func (m *BankTransactionModel) ToDomain() *recon.BankTransaction {
	tx := &recon.BankTransaction{
		Date:               m.Date,
		Direction:          m.Direction,
		Description:        m.Description,
		RefNo:              m.RefNo,
		Amount:             m.Amount,
		Counterparty:       m.Counterparty,
		CounterpartyGSTIN:  m.CounterpartyGSTIN,
		Balance:            m.Balance,
		MatchedInvoiceID:   m.MatchedInvoiceID,
		MatchScore:         m.MatchScore,
		SuggestedInvoiceID: m.SuggestedInvoiceID,
		SuggestedScore:     m.SuggestedScore,
	}
	m.PopulateTenantAggregateRoot(&tx.TenantAggregateRoot)
	return tx
}

// FromDomain populates the persistence model from a domain BankTransaction entity.
func (m *BankTransactionModel) FromDomain(tx *recon.BankTransaction) {
	m.FromDomainTenantAggregateRoot(tx.TenantAggregateRoot)
	m.Date = tx.Date
	m.Direction = tx.Direction
	m.Description = tx.Description
	m.RefNo = tx.RefNo
	m.Amount = tx.Amount
	m.Counterparty = tx.Counterparty
	m.CounterpartyGSTIN = tx.CounterpartyGSTIN
	m.Balance = tx.Balance
	m.MatchedInvoiceID = tx.MatchedInvoiceID
	m.MatchScore = tx.MatchScore
	m.SuggestedInvoiceID = tx.SuggestedInvoiceID
	m.SuggestedScore = tx.SuggestedScore
}

// BankTransactionModelFromDomain creates a new persistence model from a domain BankTransaction entity.
func BankTransactionModelFromDomain(tx *recon.BankTransaction) *BankTransactionModel {
	m := &BankTransactionModel{}
	m.FromDomain(tx)
	return m
}

// LedgerEntryModel is the persistence model for the LedgerEntry domain entity.
// Ledger rows are append-only, there is no update path through this model.
type LedgerEntryModel struct {
	BaseModel
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date          time.Time       `gorm:"not null;index"`
	Description   string          `gorm:"type:text;not null"`
	DebitAccount  string          `gorm:"type:varchar(200);not null"`
	CreditAccount string          `gorm:"type:varchar(200);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry entity.
func (m *LedgerEntryModel) ToDomain() *recon.LedgerEntry {
	return &recon.LedgerEntry{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		TenantID:      m.TenantID,
		Date:          m.Date,
		Description:   m.Description,
		DebitAccount:  m.DebitAccount,
		CreditAccount: m.CreditAccount,
		Amount:        m.Amount,
		TransactionID: m.TransactionID,
	}
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry entity.
func LedgerEntryModelFromDomain(e *recon.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomainBaseEntity(e.BaseEntity)
	m.TenantID = e.TenantID
	m.Date = e.Date
	m.Description = e.Description
	m.DebitAccount = e.DebitAccount
	m.CreditAccount = e.CreditAccount
	m.Amount = e.Amount
	m.TransactionID = e.TransactionID
	return m
}
