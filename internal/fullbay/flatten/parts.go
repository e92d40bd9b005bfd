package flatten

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/parse"
	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
)

type partGroup struct {
	template     *types.Part
	quantity     decimal.Decimal
	toBeReturned decimal.Decimal
	returned     decimal.Decimal
	totalCost    decimal.Decimal
	totalPrice   decimal.Decimal
	unitPrice    decimal.Decimal
	dirtyCore    bool
}

// partRows flattens one correction's part list. Parts sharing a grouping
// key of (correction, normalized part number or description, unit selling
// price) merge into a single row with summed quantity and totals; any
// differing key field keeps rows separate. Group order follows first
// appearance in the source.
func (f *flattener) partRows(u workUnit) []types.LineItem {
	corr := u.correction
	if len(corr.Parts) == 0 {
		return nil
	}

	groups := make(map[string]*partGroup)
	var order []string

	for i := range corr.Parts {
		part := &corr.Parts[i]

		qty, price, ok := effectiveQuantity(part)
		if !ok {
			continue
		}

		key := groupKey(part, price)
		g, exists := groups[key]
		if !exists {
			g = &partGroup{
				template:  part,
				unitPrice: price,
				dirtyCore: strings.EqualFold(part.CoreType, "Dirty"),
			}
			groups[key] = g
			order = append(order, key)
		}

		cost := parse.DecimalOrZero(part.Cost.String())
		g.quantity = g.quantity.Add(qty)
		g.toBeReturned = g.toBeReturned.Add(parse.DecimalOrZero(part.ToBeReturnedQuantity.String()))
		g.returned = g.returned.Add(parse.DecimalOrZero(part.ReturnedQuantity.String()))
		g.totalCost = g.totalCost.Add(cost.Mul(qty))
		g.totalPrice = g.totalPrice.Add(price.Mul(qty))
	}

	items := make([]types.LineItem, 0, len(order))
	for _, key := range order {
		g := groups[key]
		part := g.template

		li := f.base()
		f.applyComplaint(&li, u.complaint)
		f.applyCorrection(&li, corr)

		li.Type = f.classifyPart(part)
		li.PartID = part.PrimaryKey.String()
		li.PartDescription = part.Description
		li.ShopPartNumber = part.ShopPartNumber
		li.VendorPartNumber = part.VendorPartNumber
		li.PartCategory = part.PartCategory

		li.Quantity = g.quantity
		li.ToBeReturnedQuantity = g.toBeReturned
		li.ReturnedQuantity = g.returned

		li.UnitCost = parse.DecimalOrZero(part.Cost.String())
		li.UnitPrice = g.unitPrice
		li.LineTotalCost = g.totalCost.Round(2)
		li.LineTotalPrice = g.totalPrice.Round(2)
		li.PriceOverridden = parse.YesNo(part.SellingPriceOverridden)

		li.Taxable = parse.YesNo(part.Taxable)
		li.InventoryItem = parse.YesNo(part.Inventory)
		li.CoreType = part.CoreType
		li.Sublet = parse.YesNo(part.Sublet)

		items = append(items, li)
	}

	return items
}

// effectiveQuantity resolves what actually ships on the invoice. Returned
// quantity takes precedence over to-be-returned; dirty cores invert the
// price (core refund) and bill only what came back. Parts that net out to
// zero or less are omitted entirely.
func effectiveQuantity(part *types.Part) (qty, unitPrice decimal.Decimal, ok bool) {
	quantity := parse.DecimalOrZero(part.Quantity.String())
	toBeReturned := parse.DecimalOrZero(part.ToBeReturnedQuantity.String())
	returned := parse.DecimalOrZero(part.ReturnedQuantity.String())
	price := parse.DecimalOrZero(part.SellingPrice.String())

	if strings.EqualFold(part.CoreType, "Dirty") {
		if returned.IsPositive() {
			return returned, price.Neg(), true
		}
		return decimal.Zero, decimal.Zero, false
	}

	switch {
	case returned.IsPositive():
		qty = quantity.Sub(returned)
	case toBeReturned.IsPositive():
		qty = quantity.Sub(toBeReturned)
	default:
		qty = quantity
	}

	if !qty.IsPositive() {
		return decimal.Zero, decimal.Zero, false
	}
	return qty, price, true
}

func groupKey(part *types.Part, unitPrice decimal.Decimal) string {
	id := normalizePartKey(part.ShopPartNumber)
	if id == "" {
		id = normalizePartKey(part.Description)
	}
	return id + "|" + unitPrice.String()
}

func normalizePartKey(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// classifyPart picks the row type. The sublet flag wins outright, then the
// freight vocabulary, then the supply vocabulary; everything else is a
// plain part.
func (f *flattener) classifyPart(part *types.Part) types.LineType {
	if parse.YesNo(part.Sublet) {
		return types.LineSublet
	}
	text := part.Description + " " + part.PartCategory
	if matchesVocab(text, f.cfg.FreightKeywords) {
		return types.LineFreight
	}
	if matchesVocab(text, f.cfg.SupplyKeywords) {
		return types.LineSupply
	}
	return types.LinePart
}
