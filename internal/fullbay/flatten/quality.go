package flatten

import (
	"fmt"
	"strings"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
)

// assessQuality runs per-row completeness checks over the emitted rows and
// folds the findings into a 0-100 score. The score is observational: a low
// score never blocks persistence, it only flags invoices worth a look.
func (f *flattener) assessQuality(items []types.LineItem) {
	issues := 0
	record := func(kind string) {
		f.report.QualityIssues[kind]++
		issues++
	}

	for i := range items {
		li := &items[i]

		if li.InvoiceID == "" {
			record("missing_invoice_id")
		}
		if li.CustomerID == 0 || li.CustomerTitle == "" {
			record("missing_customer_info")
		}
		if f.ctx.HasUnit && li.UnitVIN == "" && li.UnitMake == "" {
			record("missing_unit_info")
		}
		if li.LineTotalPrice.IsNegative() && !strings.EqualFold(li.CoreType, "Dirty") {
			record("negative_line_total")
		}
		if li.Type == types.LineLabor && li.Hours.IsZero() {
			record("zero_labor_hours")
		}
		if (li.Type == types.LinePart || li.Type == types.LineSupply) &&
			!li.InvoiceLevel && li.ShopPartNumber == "" {
			record("missing_part_numbers")
		}
	}

	score := 100.0
	if len(items) > 0 && issues > 0 {
		score = 100.0 - float64(issues)*100.0/float64(len(items))
		if score < 0 {
			score = 0
		}
	}
	f.report.QualityScore = score

	if issues > 0 {
		f.report.AddWarning(types.WarningQuality, fmt.Sprintf(
			"%d quality issue(s) across %d row(s), score %.1f", issues, len(items), score))
	}
}
