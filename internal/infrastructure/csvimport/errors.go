package csvimport

import (
	"errors"
	"fmt"
	"strings"
)

// Import error codes, returned per row in import results
const (
	ErrCodeImportRequiredField = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeImportInvalidType   = "ERR_IMPORT_INVALID_TYPE"
	ErrCodeImportInvalidFormat = "ERR_IMPORT_INVALID_FORMAT"
	ErrCodeImportInvalidRange  = "ERR_IMPORT_INVALID_RANGE"
	ErrCodeImportValidation    = "ERR_IMPORT_VALIDATION"
)

// Common import errors
var (
	// ErrEmptyFile is returned when the CSV file is empty
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrMissingHeader is returned when the CSV file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")

	// ErrNoDataRows is returned when the CSV file has no data rows
	ErrNoDataRows = errors.New("CSV file contains no data rows")
)

// HeaderError reports required columns missing from the header row
type HeaderError struct {
	Missing []string
}

// NewHeaderError creates a HeaderError for the missing columns
func NewHeaderError(missing []string) *HeaderError {
	return &HeaderError{Missing: missing}
}

// Error implements the error interface
func (e *HeaderError) Error() string {
	return fmt.Sprintf("CSV file missing required columns: %s", strings.Join(e.Missing, ", "))
}

// RowError represents an error in a specific row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a new RowError
func NewRowError(row int, column, code, message string) RowError {
	return RowError{
		Row:     row,
		Column:  column,
		Code:    code,
		Message: message,
	}
}
