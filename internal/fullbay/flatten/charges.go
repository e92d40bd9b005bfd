package flatten

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/parse"
	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
)

// chargeRows emits rows for invoice-aggregate charges that no correction
// accounts for: misc charges, shop supplies, service call and mileage.
// These rows carry no complaint or correction linkage and are tagged
// invoice-level. The shop-supplies row reflects only the invoice aggregate;
// supply parts itemized under corrections were already emitted there and
// are never folded in again.
func (f *flattener) chargeRows(inv *types.Invoice) []types.LineItem {
	var items []types.LineItem

	// Itemized misc charges supersede the aggregate so the same money is
	// never emitted twice.
	if len(inv.MiscCharges) > 0 {
		for i := range inv.MiscCharges {
			mc := &inv.MiscCharges[i]
			amount := parse.DecimalOrZero(mc.Amount.String())
			if amount.IsZero() {
				continue
			}
			desc := mc.Description
			if desc == "" {
				desc = fmt.Sprintf("Misc Charge - %s", mc.QuickBooksItemType)
			}
			items = append(items, f.chargeRow(types.LineMisc, desc, "Misc Charges", amount))
		}
	} else if !f.ctx.MiscChargeTotal.IsZero() {
		items = append(items, f.chargeRow(types.LineMisc, "Miscellaneous Charges", "Misc Charges", f.ctx.MiscChargeTotal))
	}

	if !f.ctx.SuppliesTotal.IsZero() {
		items = append(items, f.chargeRow(types.LineSupply, "Shop Supplies", "Shop Supplies", f.ctx.SuppliesTotal))
	}
	if !f.ctx.ServiceCallTotal.IsZero() {
		items = append(items, f.chargeRow(types.LineServiceCall, "Service Call", "Service Call", f.ctx.ServiceCallTotal))
	}
	if !f.ctx.MileageTotal.IsZero() {
		items = append(items, f.chargeRow(types.LineMileage, "Mileage", "Mileage", f.ctx.MileageTotal))
	}

	return items
}

func (f *flattener) chargeRow(t types.LineType, description, category string, amount decimal.Decimal) types.LineItem {
	li := f.base()
	li.Type = t
	li.InvoiceLevel = true
	li.PartDescription = description
	li.PartCategory = category
	li.Quantity = decimal.NewFromInt(1)
	li.UnitPrice = amount
	li.LineTotalPrice = amount
	li.Taxable = true
	return li
}
