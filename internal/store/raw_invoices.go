package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("record not found")

type RawInvoiceStore struct {
	db *sqlx.DB
}

// Upsert stores the raw document keyed by the Fullbay invoice id. A
// re-ingest of the same invoice replaces the document and clears the
// processed flag so the flattener runs again over the fresh payload.
func (rs *RawInvoiceStore) Upsert(ctx context.Context, raw *RawInvoice) error {
	query := `INSERT INTO fullbay_raw_invoices (
		fullbay_invoice_id,
		invoice_number,
		invoice_date,
		raw_data,
		processed
	) VALUES (
		:fullbay_invoice_id,
		:invoice_number,
		:invoice_date,
		:raw_data,
		false
	)
	ON CONFLICT (fullbay_invoice_id) DO UPDATE SET
		invoice_number = EXCLUDED.invoice_number,
		invoice_date = EXCLUDED.invoice_date,
		raw_data = EXCLUDED.raw_data,
		processed = false,
		processing_error = NULL,
		updated_at = NOW()
	RETURNING id, created_at, updated_at`

	rows, err := rs.db.NamedQueryContext(ctx, query, raw)
	if err != nil {
		return fmt.Errorf("failed to upsert raw invoice %s: %w", raw.FullbayInvoiceID, err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&raw.ID, &raw.CreatedAt, &raw.UpdatedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (rs *RawInvoiceStore) MarkProcessed(ctx context.Context, id int64) error {
	query := `UPDATE fullbay_raw_invoices
		SET processed = true, processing_error = NULL, updated_at = NOW()
		WHERE id = $1`

	_, err := rs.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark raw invoice %d processed: %w", id, err)
	}
	return nil
}

func (rs *RawInvoiceStore) MarkProcessingError(ctx context.Context, id int64, message string) error {
	query := `UPDATE fullbay_raw_invoices
		SET processed = false, processing_error = $2, updated_at = NOW()
		WHERE id = $1`

	_, err := rs.db.ExecContext(ctx, query, id, message)
	if err != nil {
		return fmt.Errorf("failed to record processing error for raw invoice %d: %w", id, err)
	}
	return nil
}

func (rs *RawInvoiceStore) GetByInvoiceID(ctx context.Context, fullbayInvoiceID string) (*RawInvoice, error) {
	query := `SELECT id, fullbay_invoice_id, invoice_number, invoice_date,
		raw_data, processed, processing_error, created_at, updated_at
		FROM fullbay_raw_invoices
		WHERE fullbay_invoice_id = $1`

	var raw RawInvoice
	err := rs.db.GetContext(ctx, &raw, query, fullbayInvoiceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get raw invoice %s: %w", fullbayInvoiceID, err)
	}
	return &raw, nil
}
