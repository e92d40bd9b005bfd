package load

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/flatten"
	"github.com/kerrybros/fullbay-ingest/internal/fullbay/parse"
	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
	"github.com/kerrybros/fullbay-ingest/internal/logger"
	"github.com/kerrybros/fullbay-ingest/internal/store"
)

// LoadInvoice archives the raw document and persists its flattened rows.
//
// The raw upsert happens before flattening so even a malformed document
// lands in the archive with its error recorded; that makes the failure
// inspectable and the invoice re-runnable once the transform handles it.
// Returns the processing report for invoices that flattened, nil for the
// ones that could not.
func LoadInvoice(ctx context.Context, inv *types.Invoice, raw json.RawMessage, cfg flatten.Config, storage *store.Storage, appLogger *logger.Logger) (*types.ProcessingReport, error) {
	const component = "Loader"

	if inv == nil {
		return nil, errors.New("nil invoice document")
	}

	invoiceID := inv.PrimaryKey.String()
	rawRecord := &store.RawInvoice{
		FullbayInvoiceID: invoiceID,
		InvoiceNumber:    inv.InvoiceNumber.String(),
		InvoiceDate:      parse.Date(inv.InvoiceDate),
		RawData:          raw,
	}

	if invoiceID != "" {
		if err := storage.RawInvoices.Upsert(ctx, rawRecord); err != nil {
			return nil, fmt.Errorf("archiving raw invoice %s: %w", invoiceID, err)
		}
	}

	result, err := flatten.Flatten(inv, cfg)
	if err != nil {
		if rawRecord.ID != 0 {
			if markErr := storage.RawInvoices.MarkProcessingError(ctx, rawRecord.ID, err.Error()); markErr != nil {
				appLogger.Error(component, "Failed to record processing error: invoice=%s err=%v", invoiceID, markErr)
			}
		}
		return nil, err
	}

	for i := range result.Items {
		result.Items[i].RawDataID = rawRecord.ID
	}

	written, err := storage.LineItems.ReplaceForInvoice(ctx, invoiceID, result.Items)
	if err != nil {
		if markErr := storage.RawInvoices.MarkProcessingError(ctx, rawRecord.ID, err.Error()); markErr != nil {
			appLogger.Error(component, "Failed to record processing error: invoice=%s err=%v", invoiceID, markErr)
		}
		return nil, fmt.Errorf("persisting line items for %s: %w", invoiceID, err)
	}

	if err := storage.RawInvoices.MarkProcessed(ctx, rawRecord.ID); err != nil {
		appLogger.Error(component, "Failed to mark raw invoice processed: invoice=%s err=%v", invoiceID, err)
	}

	appLogger.Info(component, "Invoice loaded: invoice=%s rows=%d warnings=%d score=%.1f",
		invoiceID, written, len(result.Report.Warnings), result.Report.QualityScore)
	return &result.Report, nil
}
