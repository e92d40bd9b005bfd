package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type IngestionHistoryStore struct {
	db *sqlx.DB
}

var (
	SourceFullbayAPI = "fullbay_api"
	SourceFile       = "file"
)

var (
	TriggerTypeManual    = "manual"
	TriggerTypeScheduled = "scheduled"
)

var (
	StatusInProgress = "in_progress"
	StatusSuccess    = "success"
	StatusFailure    = "failure"
	StatusPartial    = "partial"
	StatusSkipped    = "skipped"
)

func (ih *IngestionHistoryStore) InsertIngestionHistory(ctx context.Context, history *IngestionHistory) error {
	query := `INSERT INTO ingestion_history (
		execution_id,
		reference_date,
		shop_id,
		source,
		trigger_type,
		status,
		invoices_fetched,
		invoices_loaded,
		invoices_failed,
		line_items_written,
		warning_kinds
	) VALUES (
		:execution_id,
		:reference_date,
		:shop_id,
		:source,
		:trigger_type,
		:status,
		:invoices_fetched,
		:invoices_loaded,
		:invoices_failed,
		:line_items_written,
		:warning_kinds
	) RETURNING id, processed_at`

	rows, err := ih.db.NamedQueryContext(ctx, query, history)
	if err != nil {
		return fmt.Errorf("failed to insert ingestion history: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&history.ID, &history.ProcessedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (ih *IngestionHistoryStore) UpdateIngestionStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE ingestion_history SET status = $2 WHERE id = $1`

	_, err := ih.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update ingestion status for %d: %w", id, err)
	}
	return nil
}

// FinishIngestion writes the final status together with the run counters.
func (ih *IngestionHistoryStore) FinishIngestion(ctx context.Context, history *IngestionHistory) error {
	query := `UPDATE ingestion_history SET
		status = :status,
		invoices_fetched = :invoices_fetched,
		invoices_loaded = :invoices_loaded,
		invoices_failed = :invoices_failed,
		line_items_written = :line_items_written,
		warning_kinds = :warning_kinds
	WHERE id = :id`

	_, err := ih.db.NamedExecContext(ctx, query, history)
	if err != nil {
		return fmt.Errorf("failed to finish ingestion %d: %w", history.ID, err)
	}
	return nil
}

func (ih *IngestionHistoryStore) GetLatest(ctx context.Context, limit int) ([]IngestionHistory, error) {
	query := `SELECT * FROM ingestion_history
		ORDER BY processed_at DESC
		LIMIT $1`

	var history []IngestionHistory
	err := ih.db.SelectContext(ctx, &history, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest ingestion history: %w", err)
	}
	return history, nil
}

func (ih *IngestionHistoryStore) GetHistoryInRange(ctx context.Context, startDate, endDate time.Time) ([]IngestionHistory, error) {
	query := `SELECT * FROM ingestion_history
		WHERE reference_date BETWEEN $1 AND $2
		ORDER BY reference_date, processed_at`

	var history []IngestionHistory
	err := ih.db.SelectContext(ctx, &history, query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingestion history in range: %w", err)
	}
	return history, nil
}
