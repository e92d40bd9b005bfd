package types

import "github.com/shopspring/decimal"

// WarningKind classifies non-fatal conditions collected while flattening.
type WarningKind string

const (
	WarningValidation     WarningKind = "validation"
	WarningReconciliation WarningKind = "reconciliation"
	WarningQuality        WarningKind = "quality"
)

type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// ProcessingReport accompanies the row set of one flattened invoice.
// Warnings never block emission; they describe what was wrong with the
// input or with the derived rows.
type ProcessingReport struct {
	InvoiceID           string           `json:"invoice_id"`
	RowsEmitted         int              `json:"rows_emitted"`
	RowsEmittedByType   map[LineType]int `json:"rows_emitted_by_type"`
	QualityScore        float64          `json:"quality_score"`
	QualityIssues       map[string]int   `json:"quality_issues"`
	ReconciliationDelta decimal.Decimal  `json:"reconciliation_delta"`
	Warnings            []Warning        `json:"warnings"`
}

func NewProcessingReport(invoiceID string) *ProcessingReport {
	return &ProcessingReport{
		InvoiceID:         invoiceID,
		RowsEmittedByType: make(map[LineType]int),
		QualityIssues:     make(map[string]int),
		Warnings:          []Warning{},
	}
}

func (r *ProcessingReport) AddWarning(kind WarningKind, message string) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Message: message})
}

// HasWarnings reports whether any non-fatal condition was recorded.
func (r *ProcessingReport) HasWarnings() bool { return len(r.Warnings) > 0 }
