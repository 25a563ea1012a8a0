package recon

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Point budgets for the individual match signals. The budgets sum to 100 so a
// score is directly readable as a confidence percentage.
const (
	amountExactPoints = 40
	amountNearPoints  = 30
	referencePoints   = 30
	partyNamePoints   = 15
	datePoints        = 10
	gstinPoints       = 5

	// MaxScore is the highest score the scorer can produce
	MaxScore = amountExactPoints + referencePoints + partyNamePoints + datePoints + gstinPoints
)

// ScorerParams holds the tunable tolerances of the match scorer.
// The signal weights themselves are fixed; only the tolerance bands that feed
// them are configuration.
type ScorerParams struct {
	ExactAmountTolerance decimal.Decimal // amount diff below this earns full points
	NearAmountTolerance  decimal.Decimal // amount diff below this earns partial points
	DateWindowDays       int             // max day distance that still earns date points
}

// DefaultScorerParams returns the stock tolerances: within one rupee counts as
// an exact amount hit, within ten as near, and invoice and transaction dates
// may lie up to five days apart.
func DefaultScorerParams() ScorerParams {
	return ScorerParams{
		ExactAmountTolerance: decimal.NewFromInt(1),
		NearAmountTolerance:  decimal.NewFromInt(10),
		DateWindowDays:       5,
	}
}

// MatchScorer computes a similarity score between a bank transaction and an
// invoice of the matching direction. Scoring is pure: no mutation, no I/O,
// and malformed fields degrade to a zero contribution rather than erroring.
type MatchScorer struct {
	params ScorerParams
}

// NewMatchScorer creates a scorer with the given tolerances
func NewMatchScorer(params ScorerParams) *MatchScorer {
	return &MatchScorer{params: params}
}

// NewDefaultMatchScorer creates a scorer with the stock tolerances
func NewDefaultMatchScorer() *MatchScorer {
	return NewMatchScorer(DefaultScorerParams())
}

// Score returns a similarity score in [0, 100] built from five independent
// signals: amount proximity (40), reference containment (30), counterparty
// name containment (15), date proximity (10) and GSTIN equality (5).
// A missing field simply contributes nothing for its signal.
func (s *MatchScorer) Score(tx *BankTransaction, inv *Invoice) int {
	score := 0
	score += s.amountScore(tx.Amount, inv.TotalAmount)
	score += s.referenceScore(tx.RefNo, tx.Description, inv.InvoiceNumber)
	score += s.partyScore(tx.Counterparty, inv.PartyName)
	score += s.dateScore(tx.Date, inv.InvoiceDate)
	score += s.gstinScore(tx.CounterpartyGSTIN, inv.PartyGSTIN)
	return score
}

// amountScore awards tiered points by absolute difference: full points inside
// the exact tolerance, partial inside the near tolerance, nothing beyond.
func (s *MatchScorer) amountScore(txAmount, invAmount decimal.Decimal) int {
	diff := txAmount.Sub(invAmount).Abs()
	switch {
	case diff.LessThan(s.params.ExactAmountTolerance):
		return amountExactPoints
	case diff.LessThan(s.params.NearAmountTolerance):
		return amountNearPoints
	default:
		return 0
	}
}

// referenceScore awards points when the invoice number appears in either the
// transaction reference or its free-text description. An empty reference means
// the bank gave us nothing to anchor on, so the signal is skipped entirely.
func (s *MatchScorer) referenceScore(refNo, description, invoiceNumber string) int {
	if refNo == "" || invoiceNumber == "" {
		return 0
	}
	if strings.Contains(refNo, invoiceNumber) || strings.Contains(description, invoiceNumber) {
		return referencePoints
	}
	return 0
}

// partyScore awards points on case-insensitive substring containment in either
// direction, so "Acme Traders" still matches "Acme Traders Pvt Ltd".
func (s *MatchScorer) partyScore(counterparty, partyName string) int {
	if counterparty == "" || partyName == "" {
		return 0
	}
	a := strings.ToLower(counterparty)
	b := strings.ToLower(partyName)
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return partyNamePoints
	}
	return 0
}

// dateScore awards points when the transaction and invoice dates lie within
// the configured window. A zero time means the date could not be parsed
// upstream and counts as a non-match.
func (s *MatchScorer) dateScore(txDate, invDate time.Time) int {
	if txDate.IsZero() || invDate.IsZero() {
		return 0
	}
	days := daysBetween(txDate, invDate)
	if days <= s.params.DateWindowDays {
		return datePoints
	}
	return 0
}

// gstinScore awards points only on a case-sensitive exact match of both GSTINs
func (s *MatchScorer) gstinScore(txGSTIN, invGSTIN string) int {
	if txGSTIN == "" || invGSTIN == "" {
		return 0
	}
	if txGSTIN == invGSTIN {
		return gstinPoints
	}
	return 0
}

// daysBetween returns the absolute number of calendar days between two
// instants, comparing dates at UTC midnight so time-of-day never leaks into
// the distance.
func daysBetween(a, b time.Time) int {
	au := a.UTC()
	bu := b.UTC()
	ad := time.Date(au.Year(), au.Month(), au.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(bu.Year(), bu.Month(), bu.Day(), 0, 0, 0, 0, time.UTC)
	diff := ad.Sub(bd)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}
