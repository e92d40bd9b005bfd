package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type ReportsStore struct {
	db *sqlx.DB
}

type RevenueByType struct {
	LineItemType string  `db:"line_item_type" json:"line_item_type"`
	RowsCount    int     `db:"rows_count" json:"rows_count"`
	TotalRevenue float64 `db:"total_revenue" json:"total_revenue"`
	TotalCost    float64 `db:"total_cost" json:"total_cost"`
	TotalTax     float64 `db:"total_tax" json:"total_tax"`
}

type TopCustomer struct {
	CustomerID    int64   `db:"customer_id" json:"customer_id"`
	CustomerTitle string  `db:"customer_title" json:"customer_title"`
	InvoicesCount int     `db:"invoices_count" json:"invoices_count"`
	TotalRevenue  float64 `db:"total_revenue" json:"total_revenue"`
}

type TechnicianHours struct {
	Technician       string  `db:"assigned_technician" json:"technician"`
	TechnicianNumber string  `db:"assigned_technician_number" json:"technician_number"`
	LaborRowsCount   int     `db:"labor_rows_count" json:"labor_rows_count"`
	TotalHours       float64 `db:"total_hours" json:"total_hours"`
	TotalLaborValue  float64 `db:"total_labor_value" json:"total_labor_value"`
}

type PartsMargin struct {
	PartCategory string  `db:"part_category" json:"part_category"`
	RowsCount    int     `db:"rows_count" json:"rows_count"`
	TotalRevenue float64 `db:"total_revenue" json:"total_revenue"`
	TotalCost    float64 `db:"total_cost" json:"total_cost"`
	MarginValue  float64 `db:"margin_value" json:"margin_value"`
}

type IngestionQuality struct {
	Status           string `db:"status" json:"status"`
	RunsCount        int    `db:"runs_count" json:"runs_count"`
	InvoicesFetched  int    `db:"invoices_fetched" json:"invoices_fetched"`
	InvoicesLoaded   int    `db:"invoices_loaded" json:"invoices_loaded"`
	InvoicesFailed   int    `db:"invoices_failed" json:"invoices_failed"`
	LineItemsWritten int    `db:"line_items_written" json:"line_items_written"`
}

type ReportFilter struct {
	StartDate time.Time
	EndDate   time.Time
	// LineTypes narrows type-aware reports; empty means all types.
	LineTypes []string
}

func (rs *ReportsStore) GetRevenueByType(ctx context.Context, f ReportFilter) ([]RevenueByType, error) {
	query := `
	SELECT
		line_item_type,
		COUNT(id) AS rows_count,
		COALESCE(SUM(line_total), 0) AS total_revenue,
		COALESCE(SUM(line_total_cost), 0) AS total_cost,
		COALESCE(SUM(line_tax), 0) AS total_tax
	FROM
		fullbay_line_items
	WHERE
		invoice_date BETWEEN $1 AND $2
		AND (CARDINALITY($3::text[]) = 0 OR line_item_type = ANY($3))
	GROUP BY
		line_item_type
	ORDER BY
		total_revenue DESC;
	`

	var result []RevenueByType
	err := rs.db.SelectContext(ctx, &result, query, f.StartDate, f.EndDate, pq.Array(f.LineTypes))
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue by type: %w", err)
	}
	return result, nil
}

func (rs *ReportsStore) GetTopCustomers(ctx context.Context, f ReportFilter, limit int) ([]TopCustomer, error) {
	query := `
	SELECT
		customer_id,
		customer_title,
		COUNT(DISTINCT fullbay_invoice_id) AS invoices_count,
		COALESCE(SUM(line_total), 0) AS total_revenue
	FROM
		fullbay_line_items
	WHERE
		invoice_date BETWEEN $1 AND $2
	GROUP BY
		customer_id, customer_title
	ORDER BY
		total_revenue DESC
	LIMIT $3;
	`

	var result []TopCustomer
	err := rs.db.SelectContext(ctx, &result, query, f.StartDate, f.EndDate, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	return result, nil
}

func (rs *ReportsStore) GetTechnicianHours(ctx context.Context, f ReportFilter) ([]TechnicianHours, error) {
	query := `
	SELECT
		assigned_technician,
		assigned_technician_number,
		COUNT(id) AS labor_rows_count,
		COALESCE(SUM(so_hours), 0) AS total_hours,
		COALESCE(SUM(line_total), 0) AS total_labor_value
	FROM
		fullbay_line_items
	WHERE
		invoice_date BETWEEN $1 AND $2
		AND line_item_type = 'LABOR'
		AND assigned_technician != ''
	GROUP BY
		assigned_technician, assigned_technician_number
	ORDER BY
		total_hours DESC;
	`

	var result []TechnicianHours
	err := rs.db.SelectContext(ctx, &result, query, f.StartDate, f.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query technician hours: %w", err)
	}
	return result, nil
}

func (rs *ReportsStore) GetPartsMargin(ctx context.Context, f ReportFilter) ([]PartsMargin, error) {
	query := `
	SELECT
		part_category,
		COUNT(id) AS rows_count,
		COALESCE(SUM(line_total), 0) AS total_revenue,
		COALESCE(SUM(line_total_cost), 0) AS total_cost,
		COALESCE(SUM(line_total) - SUM(line_total_cost), 0) AS margin_value
	FROM
		fullbay_line_items
	WHERE
		invoice_date BETWEEN $1 AND $2
		AND line_item_type IN ('PART', 'SUPPLY', 'FREIGHT')
	GROUP BY
		part_category
	ORDER BY
		margin_value DESC;
	`

	var result []PartsMargin
	err := rs.db.SelectContext(ctx, &result, query, f.StartDate, f.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query parts margin: %w", err)
	}
	return result, nil
}

// GetIngestionQuality aggregates run outcomes over the requested window,
// one row per final status.
func (rs *ReportsStore) GetIngestionQuality(ctx context.Context, f ReportFilter) ([]IngestionQuality, error) {
	query := `
	SELECT
		status,
		COUNT(id) AS runs_count,
		COALESCE(SUM(invoices_fetched), 0) AS invoices_fetched,
		COALESCE(SUM(invoices_loaded), 0) AS invoices_loaded,
		COALESCE(SUM(invoices_failed), 0) AS invoices_failed,
		COALESCE(SUM(line_items_written), 0) AS line_items_written
	FROM
		ingestion_history
	WHERE
		reference_date BETWEEN $1 AND $2
	GROUP BY
		status
	ORDER BY
		runs_count DESC;
	`

	var result []IngestionQuality
	err := rs.db.SelectContext(ctx, &result, query, f.StartDate, f.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestion quality: %w", err)
	}
	return result, nil
}
