package flatten

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
)

var (
	epsBase   = decimal.NewFromFloat(0.02)
	epsPerRow = decimal.NewFromFloat(0.01)
)

// reconcile compares the emitted total against the invoice's recorded
// total. The tolerance widens with row count because every grouped row can
// contribute up to a cent of rounding. A mismatch is reported, never
// repaired: rows are already final and an undocumented discount upstream
// is a data condition, not a transform bug.
func (f *flattener) reconcile(items []types.LineItem) {
	var emitted decimal.Decimal
	for i := range items {
		emitted = emitted.Add(items[i].LineTotalPrice)
	}

	delta := emitted.Sub(f.ctx.Total)
	f.report.ReconciliationDelta = delta

	tolerance := epsBase.Add(epsPerRow.Mul(decimal.NewFromInt(int64(len(items)))))
	if delta.Abs().GreaterThan(tolerance) {
		f.report.AddWarning(types.WarningReconciliation, fmt.Sprintf(
			"emitted total %s differs from invoice total %s by %s (tolerance %s)",
			emitted.StringFixed(2), f.ctx.Total.StringFixed(2),
			delta.StringFixed(2), tolerance.StringFixed(2)))
	}
}
