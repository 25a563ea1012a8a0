package ingestion

import (
	"github.com/google/uuid"
	csvimport "github.com/taxdesk/backend/internal/infrastructure/csvimport"
)

// ImportStatementRequest carries one uploaded bank statement
type ImportStatementRequest struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ImportStatementResponse summarizes a statement import
type ImportStatementResponse struct {
	StorageKey     string      `json:"storage_key"`
	BankName       string      `json:"bank_name,omitempty"`
	AccountNumber  string      `json:"account_number,omitempty"`
	Imported       int         `json:"imported"`
	Skipped        int         `json:"skipped"`
	TransactionIDs []uuid.UUID `json:"transaction_ids"`
}

// ImportInvoicesResult summarizes an invoice CSV import
type ImportInvoicesResult struct {
	TotalRows    int                  `json:"total_rows"`
	ImportedRows int                  `json:"imported_rows"`
	SkippedRows  int                  `json:"skipped_rows"`
	ErrorRows    int                  `json:"error_rows"`
	Errors       []csvimport.RowError `json:"errors,omitempty"`
}
