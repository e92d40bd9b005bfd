// Package flatten turns one nested Fullbay invoice document into flat
// line-item rows plus a processing report. The transform is pure and
// deterministic: the same document and config always produce the same rows
// in the same order. Sub-invoice problems degrade to warnings; only an
// unidentifiable document fails outright.
package flatten

import (
	"time"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
)

// Result is one invoice flattened: the emitted rows and the report
// describing how the run went. Items may be empty for a legitimately empty
// invoice; Report is always populated.
type Result struct {
	Items  []types.LineItem
	Report types.ProcessingReport
}

// flattener carries the per-run state shared by the row producers. One
// instance per invoice, discarded after Flatten returns.
type flattener struct {
	cfg    Config
	ctx    *types.InvoiceContext
	report *types.ProcessingReport
	now    time.Time
}

// Flatten converts a raw invoice document into canonical line items.
// It returns a *MalformedInvoiceError when the document cannot be
// identified; every other data problem is recorded in the result's report
// and processing continues.
func Flatten(inv *types.Invoice, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()

	ctx, err := NormalizeInvoice(inv)
	if err != nil {
		return nil, err
	}

	report := types.NewProcessingReport(ctx.InvoiceID)
	f := &flattener{
		cfg:    cfg,
		ctx:    ctx,
		report: report,
		now:    time.Now().UTC(),
	}

	var items []types.LineItem

	so := inv.ServiceOrder
	if so == nil {
		so = &types.ServiceOrder{}
	}
	for _, unit := range f.walk(so) {
		if unit.correction != nil {
			items = append(items, f.partRows(unit)...)
		}
		items = append(items, f.laborRows(unit)...)
	}
	items = append(items, f.chargeRows(inv)...)

	f.finalizeTax(items)
	f.reconcile(items)
	f.assessQuality(items)

	report.RowsEmitted = len(items)
	for i := range items {
		report.RowsEmittedByType[items[i].Type]++
	}

	return &Result{Items: items, Report: *report}, nil
}

// finalizeTax applies the invoice tax rate to taxable rows and settles the
// sales total on every row. Tax is computed per row from the final line
// total, after grouping, so returns and overrides are already reflected.
func (f *flattener) finalizeTax(items []types.LineItem) {
	rate := f.ctx.TaxRate
	for i := range items {
		li := &items[i]
		if li.Taxable && rate.IsPositive() {
			li.TaxRate = rate
			li.LineTax = li.LineTotalPrice.Mul(rate).Div(oneHundred).Round(2)
		}
		li.SalesTotal = li.LineTotalPrice.Add(li.LineTax)
	}
}
