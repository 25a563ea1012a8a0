package ingestion

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared/valueobject"
	csvimport "github.com/taxdesk/backend/internal/infrastructure/csvimport"
)

// invoiceCSVHeaders are the columns an invoice CSV must carry
var invoiceCSVHeaders = []string{
	"invoice_number",
	"invoice_date",
	"direction",
	"party_name",
	"total_amount",
}

// invoiceCSVDateLayout is the expected date format in invoice CSV files
const invoiceCSVDateLayout = "2006-01-02"

// maxReportedRowErrors caps how many row errors one import response carries
const maxReportedRowErrors = 100

// InvoiceImportService bulk-imports invoices from CSV files
type InvoiceImportService struct {
	invoiceRepo recon.InvoiceRepository
}

// NewInvoiceImportService creates a new InvoiceImportService
func NewInvoiceImportService(invoiceRepo recon.InvoiceRepository) *InvoiceImportService {
	return &InvoiceImportService{invoiceRepo: invoiceRepo}
}

// ImportCSV parses and imports invoices from CSV content. Rows that fail
// validation are reported per row; valid rows are imported regardless. A row
// whose invoice number already exists, in the file or in the store, is
// skipped rather than rejected so re-uploading a grown CSV is safe.
func (s *InvoiceImportService) ImportCSV(ctx context.Context, tenantID uuid.UUID, content []byte) (*ImportInvoicesResult, error) {
	parser, err := csvimport.ParseFromBytes(content)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if missing := parser.ValidateHeaders(invoiceCSVHeaders); len(missing) > 0 {
		return nil, csvimport.NewHeaderError(missing)
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, csvimport.ErrNoDataRows
	}

	result := &ImportInvoicesResult{TotalRows: len(rows)}
	seenNumbers := make(map[string]bool)
	invoices := make([]recon.Invoice, 0, len(rows))

	for _, row := range rows {
		number := row.Get("invoice_number")
		if number == "" {
			s.addError(result, csvimport.NewRowError(row.LineNumber, "invoice_number", csvimport.ErrCodeImportRequiredField, "invoice number is required"))
			continue
		}
		if seenNumbers[number] {
			result.SkippedRows++
			continue
		}

		exists, err := s.invoiceRepo.ExistsByNumber(ctx, tenantID, number)
		if err != nil {
			return nil, err
		}
		if exists {
			result.SkippedRows++
			seenNumbers[number] = true
			continue
		}

		inv, rowErr := s.buildInvoice(tenantID, row)
		if rowErr != nil {
			s.addError(result, *rowErr)
			continue
		}

		seenNumbers[number] = true
		invoices = append(invoices, *inv)
	}

	if err := s.invoiceRepo.SaveAll(ctx, invoices); err != nil {
		return nil, err
	}
	result.ImportedRows = len(invoices)

	return result, nil
}

// buildInvoice converts one validated CSV row into an invoice aggregate
func (s *InvoiceImportService) buildInvoice(tenantID uuid.UUID, row *csvimport.Row) (*recon.Invoice, *csvimport.RowError) {
	invoiceDate, err := time.Parse(invoiceCSVDateLayout, row.Get("invoice_date"))
	if err != nil {
		rowErr := csvimport.NewRowError(row.LineNumber, "invoice_date", csvimport.ErrCodeImportInvalidFormat, "date must be in YYYY-MM-DD format")
		return nil, &rowErr
	}

	direction := recon.InvoiceDirection(strings.ToUpper(row.Get("direction")))
	if !direction.IsValid() {
		rowErr := csvimport.NewRowError(row.LineNumber, "direction", csvimport.ErrCodeImportInvalidFormat, "direction must be SALES or PURCHASE")
		return nil, &rowErr
	}

	amounts := make(map[string]decimal.Decimal, 5)
	for _, column := range []string{"taxable_value", "cgst", "sgst", "igst", "total_amount"} {
		value := row.GetOrDefault(column, "0")
		amount, err := decimal.NewFromString(value)
		if err != nil {
			rowErr := csvimport.NewRowError(row.LineNumber, column, csvimport.ErrCodeImportInvalidType, "must be a decimal number")
			return nil, &rowErr
		}
		amounts[column] = amount
	}

	total, err := valueobject.NewMoney(amounts["total_amount"], valueobject.INR)
	if err != nil {
		rowErr := csvimport.NewRowError(row.LineNumber, "total_amount", csvimport.ErrCodeImportInvalidRange, err.Error())
		return nil, &rowErr
	}

	inv, err := recon.NewInvoice(
		tenantID,
		row.Get("invoice_number"),
		invoiceDate,
		direction,
		row.Get("party_name"),
		row.Get("party_gstin"),
		amounts["taxable_value"],
		amounts["cgst"], amounts["sgst"], amounts["igst"],
		total,
	)
	if err != nil {
		rowErr := csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeImportValidation, err.Error())
		return nil, &rowErr
	}

	return inv, nil
}

// addError records a row error, capping how many are carried in the response
func (s *InvoiceImportService) addError(result *ImportInvoicesResult, rowErr csvimport.RowError) {
	result.ErrorRows++
	if len(result.Errors) < maxReportedRowErrors {
		result.Errors = append(result.Errors, rowErr)
	}
}
