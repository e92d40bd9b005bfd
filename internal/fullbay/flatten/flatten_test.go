package flatten

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// sampleInvoice is a representative repair invoice: one complaint, one
// correction with grouped parts and split labor, itemized misc charges and
// a shop supplies aggregate.
func sampleInvoice() *types.Invoice {
	return &types.Invoice{
		PrimaryKey:          "987654",
		InvoiceNumber:       "INV-2025-0101",
		InvoiceDate:         "2025-03-14",
		DueDate:             "2025-04-13",
		Exported:            "Yes",
		ShopTitle:           "Kerry Brothers Truck Repair",
		ShopEmail:           "service@kerrybros.example",
		ShopPhysicalAddress: "100 Depot St, Detroit, MI",

		SubTotal: "385.00",
		TaxRate:  "8.25",
		TaxTotal: "7.01",
		Total:    "385.00",

		SuppliesTotal: "10.00",

		MiscCharges: []types.MiscCharge{
			{Description: "Disposal fee", QuickBooksItemType: "Service", Amount: "25.00"},
		},

		ServiceOrder: &types.ServiceOrder{
			PrimaryKey:         "555111",
			RepairOrderNumber:  "RO-4410",
			Created:            "2025-03-10 08:15:00",
			StartDateTime:      "2025-03-10 09:00:00",
			CompletionDateTime: "2025-03-13 16:30:00",
			Technician:         "Pat Doyle",
			TechnicianNumber:   "T-07",
			LaborHoursTotal:    "3",
			LaborTotal:         "300.00",
			Customer: &types.Customer{
				CustomerID: "2250840",
				Title:      "Great Lakes Hauling",
				MainPhone:  "313-555-0101",
			},
			Unit: &types.Unit{
				CustomerUnitID: "77",
				Number:         "TRK-12",
				Type:           "Truck",
				Year:           "2019",
				Make:           "Freightliner",
				Model:          "Cascadia",
				VIN:            "1FUJGHDV0KLAB1234",
			},
			Complaints: []types.Complaint{
				{
					PrimaryKey: "31001",
					Type:       "Mechanical",
					Note:       "Brakes grinding",
					Authorized: "Yes",
					Corrections: []types.Correction{
						{
							PrimaryKey:       "41001",
							Title:            "Replace brake pads",
							GlobalComponent:  "Brakes",
							ActualCorrection: "Replaced front brake pads",
							LaborRate:        "Standard",
							LaborHoursTotal:  "3",
							LaborTotal:       "300.00",
							Taxable:          "No",
							Parts: []types.Part{
								{
									PrimaryKey:     "61001",
									Description:    "Brake Pad Set",
									ShopPartNumber: "BP-100",
									Quantity:       "2",
									Cost:           "7.00",
									SellingPrice:   "12.50",
									Taxable:        "Yes",
									Inventory:      "Yes",
								},
								{
									PrimaryKey:     "61002",
									Description:    "Brake Pad Set",
									ShopPartNumber: "BP-100",
									Quantity:       "2",
									Cost:           "7.00",
									SellingPrice:   "12.50",
									Taxable:        "Yes",
									Inventory:      "Yes",
								},
							},
							AssignedTechnicians: []types.TechnicianAssignment{
								{Technician: "Pat Doyle", TechnicianNumber: "T-07", Portion: "50"},
								{Technician: "Sam Ruiz", TechnicianNumber: "T-11", Portion: "50"},
							},
						},
					},
				},
			},
		},
	}
}

func itemsOfType(items []types.LineItem, t types.LineType) []types.LineItem {
	var out []types.LineItem
	for _, li := range items {
		if li.Type == t {
			out = append(out, li)
		}
	}
	return out
}

func TestFlattenFullInvoice(t *testing.T) {
	result, err := Flatten(sampleInvoice(), DefaultConfig())
	require.NoError(t, err)

	// 1 grouped part + 2 labor + 1 misc + 1 supplies.
	assert.Len(t, result.Items, 5)
	assert.Equal(t, 5, result.Report.RowsEmitted)
	assert.Equal(t, 1, result.Report.RowsEmittedByType[types.LinePart])
	assert.Equal(t, 2, result.Report.RowsEmittedByType[types.LineLabor])
	assert.Equal(t, 1, result.Report.RowsEmittedByType[types.LineMisc])
	assert.Equal(t, 1, result.Report.RowsEmittedByType[types.LineSupply])

	parts := itemsOfType(result.Items, types.LinePart)
	require.Len(t, parts, 1)
	part := parts[0]
	assert.Equal(t, "BP-100", part.ShopPartNumber)
	assert.True(t, part.Quantity.Equal(money("4")), "quantities merge across duplicate part lines")
	assert.True(t, part.LineTotalPrice.Equal(money("50.00")))
	assert.True(t, part.LineTotalCost.Equal(money("28.00")))
	assert.True(t, part.UnitPrice.Equal(money("12.50")))
	assert.True(t, part.Taxable)
	assert.True(t, part.TaxRate.Equal(money("8.25")))
	assert.True(t, part.LineTax.Equal(money("4.13")))
	assert.True(t, part.SalesTotal.Equal(money("54.13")))
	assert.True(t, part.InventoryItem)
	require.NotNil(t, part.ComplaintID)
	assert.Equal(t, int64(31001), *part.ComplaintID)
	require.NotNil(t, part.CorrectionID)
	assert.Equal(t, int64(41001), *part.CorrectionID)

	labor := itemsOfType(result.Items, types.LineLabor)
	require.Len(t, labor, 2)
	for _, li := range labor {
		assert.True(t, li.Hours.Equal(money("1.5")), "hours derive from portion of correction total")
		assert.Equal(t, 50, li.TechnicianPortion)
		assert.True(t, li.LineTotalPrice.Equal(money("150.00")))
		assert.False(t, li.Taxable)
		assert.True(t, li.LineTax.IsZero())
		assert.True(t, li.SalesTotal.Equal(li.LineTotalPrice))
		assert.Equal(t, "Replaced front brake pads", li.LaborDescription)
	}
	assert.Equal(t, "Pat Doyle", labor[0].AssignedTechnician)
	assert.Equal(t, "Sam Ruiz", labor[1].AssignedTechnician)

	misc := itemsOfType(result.Items, types.LineMisc)
	require.Len(t, misc, 1)
	assert.Equal(t, "Disposal fee", misc[0].PartDescription)
	assert.True(t, misc[0].InvoiceLevel)
	assert.Nil(t, misc[0].ComplaintID)
	assert.Nil(t, misc[0].CorrectionID)

	supplies := itemsOfType(result.Items, types.LineSupply)
	require.Len(t, supplies, 1)
	assert.True(t, supplies[0].LineTotalPrice.Equal(money("10.00")))
	assert.True(t, supplies[0].InvoiceLevel)

	// Context propagates to every row.
	for _, li := range result.Items {
		assert.Equal(t, "987654", li.InvoiceID)
		assert.Equal(t, "INV-2025-0101", li.InvoiceNumber)
		assert.Equal(t, int64(2250840), li.CustomerID)
		assert.Equal(t, "Great Lakes Hauling", li.CustomerTitle)
		assert.Equal(t, "1FUJGHDV0KLAB1234", li.UnitVIN)
		assert.Equal(t, "fullbay_api", li.IngestionSource)
		assert.False(t, li.IngestionTimestamp.IsZero())
	}

	// 50 + 150 + 150 + 25 + 10 = 385, matches the invoice total.
	assert.True(t, result.Report.ReconciliationDelta.IsZero())
	for _, w := range result.Report.Warnings {
		assert.NotEqual(t, types.WarningReconciliation, w.Kind)
	}
	assert.Equal(t, 100.0, result.Report.QualityScore)
}

func TestFlattenDeterministic(t *testing.T) {
	first, err := Flatten(sampleInvoice(), DefaultConfig())
	require.NoError(t, err)
	second, err := Flatten(sampleInvoice(), DefaultConfig())
	require.NoError(t, err)

	require.Equal(t, len(first.Items), len(second.Items))
	for i := range first.Items {
		a, b := first.Items[i], second.Items[i]
		// The ingestion timestamp is the only per-run field.
		a.IngestionTimestamp = b.IngestionTimestamp
		assert.Equal(t, a, b)
	}
}

func TestFlattenMissingPrimaryKeyIsFatal(t *testing.T) {
	inv := sampleInvoice()
	inv.PrimaryKey = ""

	_, err := Flatten(inv, DefaultConfig())
	var malformed *MalformedInvoiceError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, "primaryKey")
}

func TestFlattenMissingInvoiceNumberIsFatal(t *testing.T) {
	inv := sampleInvoice()
	inv.InvoiceNumber = ""

	_, err := Flatten(inv, DefaultConfig())
	var malformed *MalformedInvoiceError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "987654", malformed.InvoiceID)
}

func TestFlattenNilInvoice(t *testing.T) {
	_, err := Flatten(nil, DefaultConfig())
	var malformed *MalformedInvoiceError
	require.ErrorAs(t, err, &malformed)
}

func TestFlattenEmptyServiceOrder(t *testing.T) {
	inv := sampleInvoice()
	inv.ServiceOrder.Complaints = nil
	inv.MiscCharges = nil
	inv.SuppliesTotal = ""
	inv.Total = "0"

	result, err := Flatten(inv, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, 0, result.Report.RowsEmitted)
	assert.Equal(t, 100.0, result.Report.QualityScore)
}

func TestFlattenMalformedCorrectionSkipped(t *testing.T) {
	inv := sampleInvoice()
	bad := types.Correction{
		PrimaryKey:      "41999",
		Title:           "Unreadable",
		LaborHoursTotal: "N/A",
	}
	inv.ServiceOrder.Complaints[0].Corrections = append(
		inv.ServiceOrder.Complaints[0].Corrections, bad)

	result, err := Flatten(inv, DefaultConfig())
	require.NoError(t, err)

	// The good correction still produced its rows.
	assert.Equal(t, 1, result.Report.RowsEmittedByType[types.LinePart])
	assert.Equal(t, 2, result.Report.RowsEmittedByType[types.LineLabor])

	var found bool
	for _, w := range result.Report.Warnings {
		if w.Kind == types.WarningValidation {
			found = true
		}
	}
	assert.True(t, found, "skipped correction must surface a validation warning")
}

func TestFlattenReconciliationWarning(t *testing.T) {
	inv := sampleInvoice()
	inv.Total = "500.00"

	result, err := Flatten(inv, DefaultConfig())
	require.NoError(t, err)

	assert.True(t, result.Report.ReconciliationDelta.Equal(money("-115.00")))

	var found bool
	for _, w := range result.Report.Warnings {
		if w.Kind == types.WarningReconciliation {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFlattenReconciliationToleratesRounding(t *testing.T) {
	inv := sampleInvoice()
	// 5 rows widen the tolerance to 0.02 + 5*0.01 = 0.07.
	inv.Total = "385.06"

	result, err := Flatten(inv, DefaultConfig())
	require.NoError(t, err)

	for _, w := range result.Report.Warnings {
		assert.NotEqual(t, types.WarningReconciliation, w.Kind)
	}
}

func TestFlattenQualityIssues(t *testing.T) {
	inv := sampleInvoice()
	inv.ServiceOrder.Complaints[0].Corrections[0].Parts[0].ShopPartNumber = ""
	inv.ServiceOrder.Complaints[0].Corrections[0].Parts[1].ShopPartNumber = ""

	result, err := Flatten(inv, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Report.QualityIssues["missing_part_numbers"])
	assert.InDelta(t, 80.0, result.Report.QualityScore, 0.01)

	var found bool
	for _, w := range result.Report.Warnings {
		if w.Kind == types.WarningQuality {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFlattenLaborOnlyInvoice(t *testing.T) {
	inv := sampleInvoice()
	inv.MiscCharges = nil
	inv.SuppliesTotal = ""
	inv.Total = "150.00"
	corr := &inv.ServiceOrder.Complaints[0].Corrections[0]
	corr.Parts = nil
	corr.LaborHoursTotal = "1.2528"
	corr.LaborTotal = "150.00"
	corr.AssignedTechnicians = []types.TechnicianAssignment{
		{Technician: "Pat Doyle", TechnicianNumber: "T-07", Portion: "100", ActualHours: "1.2528"},
	}

	result, err := Flatten(inv, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	li := result.Items[0]
	assert.Equal(t, types.LineLabor, li.Type)
	assert.True(t, li.Hours.Equal(money("1.2528")))
	assert.True(t, li.LineTotalPrice.Equal(money("150.00")))
	assert.True(t, result.Report.ReconciliationDelta.IsZero())
}

func TestFlattenInvoiceChargesReconcile(t *testing.T) {
	inv := sampleInvoice()
	inv.ServiceOrder.Complaints = nil
	inv.MiscCharges = nil
	inv.MiscChargeTotal = "4.73"
	inv.SuppliesTotal = "7.50"
	inv.Total = "12.23"

	result, err := Flatten(inv, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	assert.Equal(t, 1, result.Report.RowsEmittedByType[types.LineMisc])
	assert.Equal(t, 1, result.Report.RowsEmittedByType[types.LineSupply])
	for _, li := range result.Items {
		assert.True(t, li.InvoiceLevel)
	}
	for _, w := range result.Report.Warnings {
		assert.NotEqual(t, types.WarningReconciliation, w.Kind)
	}
}

func TestFlattenLaborHoursSumToCorrectionTotal(t *testing.T) {
	result, err := Flatten(sampleInvoice(), DefaultConfig())
	require.NoError(t, err)

	var total decimal.Decimal
	for _, li := range itemsOfType(result.Items, types.LineLabor) {
		total = total.Add(li.Hours)
	}
	assert.True(t, total.Equal(money("3")))
}

func TestFlattenCustomerFallback(t *testing.T) {
	inv := sampleInvoice()
	inv.ServiceOrder.Customer = nil
	inv.Customer = &types.Customer{CustomerID: "99", Title: "Walk-in"}

	result, err := Flatten(inv, DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, result.Items)
	assert.Equal(t, int64(99), result.Items[0].CustomerID)
	assert.Equal(t, "Walk-in", result.Items[0].CustomerTitle)
}
