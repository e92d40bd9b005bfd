package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
)

type LineItemStore struct {
	db *sqlx.DB
}

const insertLineItemsQuery = `INSERT INTO fullbay_line_items (
	raw_data_id,
	fullbay_invoice_id,
	invoice_number,
	invoice_date,
	due_date,
	exported,
	shop_title,
	shop_email,
	shop_address,
	customer_id,
	customer_title,
	customer_external_id,
	customer_main_phone,
	customer_secondary_phone,
	customer_billing_address,
	fullbay_service_order_id,
	repair_order_number,
	service_order_created,
	service_order_start_date,
	service_order_completion_date,
	unit_id,
	unit,
	unit_type,
	unit_year,
	unit_make,
	unit_model,
	unit_vin,
	unit_license_plate,
	primary_technician,
	primary_technician_number,
	fullbay_complaint_id,
	complaint_type,
	complaint_subtype,
	complaint_note,
	complaint_cause,
	complaint_authorized,
	complaint_severity,
	fullbay_correction_id,
	correction_title,
	global_component,
	global_system,
	global_service,
	recommended_correction,
	service_description,
	line_item_type,
	fullbay_part_id,
	part_description,
	shop_part_number,
	vendor_part_number,
	part_category,
	labor_description,
	labor_rate_type,
	assigned_technician,
	assigned_technician_number,
	quantity,
	to_be_returned_quantity,
	returned_quantity,
	so_hours,
	technician_portion,
	unit_cost,
	unit_price,
	line_total_cost,
	line_total,
	price_overridden,
	taxable,
	tax_rate,
	line_tax,
	sales_total,
	inventory_item,
	core_type,
	sublet,
	invoice_level,
	so_supplies_total,
	ingestion_timestamp,
	ingestion_source
) VALUES (
	:raw_data_id,
	:fullbay_invoice_id,
	:invoice_number,
	:invoice_date,
	:due_date,
	:exported,
	:shop_title,
	:shop_email,
	:shop_address,
	:customer_id,
	:customer_title,
	:customer_external_id,
	:customer_main_phone,
	:customer_secondary_phone,
	:customer_billing_address,
	:fullbay_service_order_id,
	:repair_order_number,
	:service_order_created,
	:service_order_start_date,
	:service_order_completion_date,
	:unit_id,
	:unit,
	:unit_type,
	:unit_year,
	:unit_make,
	:unit_model,
	:unit_vin,
	:unit_license_plate,
	:primary_technician,
	:primary_technician_number,
	:fullbay_complaint_id,
	:complaint_type,
	:complaint_subtype,
	:complaint_note,
	:complaint_cause,
	:complaint_authorized,
	:complaint_severity,
	:fullbay_correction_id,
	:correction_title,
	:global_component,
	:global_system,
	:global_service,
	:recommended_correction,
	:service_description,
	:line_item_type,
	:fullbay_part_id,
	:part_description,
	:shop_part_number,
	:vendor_part_number,
	:part_category,
	:labor_description,
	:labor_rate_type,
	:assigned_technician,
	:assigned_technician_number,
	:quantity,
	:to_be_returned_quantity,
	:returned_quantity,
	:so_hours,
	:technician_portion,
	:unit_cost,
	:unit_price,
	:line_total_cost,
	:line_total,
	:price_overridden,
	:taxable,
	:tax_rate,
	:line_tax,
	:sales_total,
	:inventory_item,
	:core_type,
	:sublet,
	:invoice_level,
	:so_supplies_total,
	:ingestion_timestamp,
	:ingestion_source
)`

// ReplaceForInvoice atomically swaps the flattened rows of one invoice.
// Delete plus insert in a single transaction keeps re-ingestion idempotent:
// readers never see a mix of old and new rows, and an insert failure leaves
// the previous row set intact.
func (ls *LineItemStore) ReplaceForInvoice(ctx context.Context, fullbayInvoiceID string, items []types.LineItem) (int, error) {
	tx, err := ls.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin line item transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM fullbay_line_items WHERE fullbay_invoice_id = $1`,
		fullbayInvoiceID); err != nil {
		return 0, fmt.Errorf("failed to delete existing line items for %s: %w", fullbayInvoiceID, err)
	}

	if len(items) > 0 {
		if _, err := tx.NamedExecContext(ctx, insertLineItemsQuery, items); err != nil {
			return 0, fmt.Errorf("failed to insert line items for %s: %w", fullbayInvoiceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit line items for %s: %w", fullbayInvoiceID, err)
	}
	return len(items), nil
}

func (ls *LineItemStore) GetByInvoice(ctx context.Context, fullbayInvoiceID string) ([]types.LineItem, error) {
	query := `SELECT * FROM fullbay_line_items
		WHERE fullbay_invoice_id = $1
		ORDER BY id`

	var items []types.LineItem
	err := ls.db.SelectContext(ctx, &items, query, fullbayInvoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get line items for %s: %w", fullbayInvoiceID, err)
	}
	return items, nil
}
