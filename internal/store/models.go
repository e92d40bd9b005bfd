package store

import (
	"time"

	"github.com/lib/pq"
)

// RawInvoice represents the 'fullbay_raw_invoices' table. The document is
// stored verbatim as JSONB so any invoice can be re-flattened after a
// transform change without another API pull.
type RawInvoice struct {
	ID               int64      `db:"id" json:"id"`
	FullbayInvoiceID string     `db:"fullbay_invoice_id" json:"fullbay_invoice_id"`
	InvoiceNumber    string     `db:"invoice_number" json:"invoice_number"`
	InvoiceDate      *time.Time `db:"invoice_date" json:"invoice_date"`
	RawData          []byte     `db:"raw_data" json:"-"`
	Processed        bool       `db:"processed" json:"processed"`
	ProcessingError  *string    `db:"processing_error" json:"processing_error,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// IngestionHistory represents the 'ingestion_history' table. One row per
// reference date per run attempt.
type IngestionHistory struct {
	ID               int64          `db:"id" json:"id"`
	ExecutionID      string         `db:"execution_id" json:"execution_id"`
	ReferenceDate    time.Time      `db:"reference_date" json:"reference_date"`
	ShopID           string         `db:"shop_id" json:"shop_id"`
	Source           string         `db:"source" json:"source"`
	TriggerType      string         `db:"trigger_type" json:"trigger_type"`
	Status           string         `db:"status" json:"status"`
	InvoicesFetched  int            `db:"invoices_fetched" json:"invoices_fetched"`
	InvoicesLoaded   int            `db:"invoices_loaded" json:"invoices_loaded"`
	InvoicesFailed   int            `db:"invoices_failed" json:"invoices_failed"`
	LineItemsWritten int            `db:"line_items_written" json:"line_items_written"`
	WarningKinds     pq.StringArray `db:"warning_kinds" json:"warning_kinds"`
	ProcessedAt      time.Time      `db:"processed_at" json:"processed_at"`
}
