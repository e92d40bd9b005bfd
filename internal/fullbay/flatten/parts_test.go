package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
)

func flattenParts(t *testing.T, parts []types.Part) []types.LineItem {
	t.Helper()
	inv := sampleInvoice()
	inv.MiscCharges = nil
	inv.SuppliesTotal = ""
	corr := &inv.ServiceOrder.Complaints[0].Corrections[0]
	corr.Parts = parts
	corr.AssignedTechnicians = nil
	corr.LaborHoursTotal = ""
	corr.LaborTotal = ""

	result, err := Flatten(inv, DefaultConfig())
	require.NoError(t, err)
	return result.Items
}

func TestPartGroupingByPriceKeepsRowsApart(t *testing.T) {
	items := flattenParts(t, []types.Part{
		{Description: "Air Filter", ShopPartNumber: "AF-1", Quantity: "1", SellingPrice: "20.00", Cost: "10.00"},
		{Description: "Air Filter", ShopPartNumber: "AF-1", Quantity: "1", SellingPrice: "25.00", Cost: "10.00"},
	})

	require.Len(t, items, 2)
	assert.True(t, items[0].UnitPrice.Equal(money("20.00")))
	assert.True(t, items[1].UnitPrice.Equal(money("25.00")))
}

func TestPartGroupingNormalizesIdentifier(t *testing.T) {
	items := flattenParts(t, []types.Part{
		{Description: "oil filter", Quantity: "1", SellingPrice: "15.00"},
		{Description: "  OIL   FILTER ", Quantity: "2", SellingPrice: "15.00"},
	})

	require.Len(t, items, 1)
	assert.True(t, items[0].Quantity.Equal(money("3")))
	assert.True(t, items[0].LineTotalPrice.Equal(money("45.00")))
}

func TestPartGroupingStaysWithinCorrection(t *testing.T) {
	inv := sampleInvoice()
	inv.MiscCharges = nil
	inv.SuppliesTotal = ""
	part := types.Part{Description: "Brake Pad Set", ShopPartNumber: "BP-100", Quantity: "1", SellingPrice: "12.50", Cost: "7.00"}
	complaint := &inv.ServiceOrder.Complaints[0]
	complaint.Corrections = []types.Correction{
		{PrimaryKey: "41001", Title: "Front brakes", Parts: []types.Part{part}},
		{PrimaryKey: "41002", Title: "Rear brakes", Parts: []types.Part{part}},
	}

	result, err := Flatten(inv, DefaultConfig())
	require.NoError(t, err)

	parts := itemsOfType(result.Items, types.LinePart)
	require.Len(t, parts, 2)
	assert.NotEqual(t, *parts[0].CorrectionID, *parts[1].CorrectionID)
}

func TestPartReturnedQuantityReducesBilling(t *testing.T) {
	items := flattenParts(t, []types.Part{
		{Description: "Gasket", ShopPartNumber: "G-9", Quantity: "5", ReturnedQuantity: "2", SellingPrice: "10.00", Cost: "4.00"},
	})

	require.Len(t, items, 1)
	assert.True(t, items[0].Quantity.Equal(money("3")))
	assert.True(t, items[0].LineTotalPrice.Equal(money("30.00")))
	assert.True(t, items[0].LineTotalCost.Equal(money("12.00")))
}

func TestPartToBeReturnedFallback(t *testing.T) {
	items := flattenParts(t, []types.Part{
		{Description: "Hose", ShopPartNumber: "H-2", Quantity: "4", ToBeReturnedQuantity: "1", SellingPrice: "8.00"},
	})

	require.Len(t, items, 1)
	assert.True(t, items[0].Quantity.Equal(money("3")))
}

func TestPartFullyReturnedOmitted(t *testing.T) {
	items := flattenParts(t, []types.Part{
		{Description: "Clamp", ShopPartNumber: "C-1", Quantity: "2", ReturnedQuantity: "2", SellingPrice: "5.00"},
	})

	assert.Empty(t, items)
}

func TestDirtyCoreBillsNegativeForReturns(t *testing.T) {
	items := flattenParts(t, []types.Part{
		{Description: "Core Charge", ShopPartNumber: "CORE-1", CoreType: "Dirty",
			Quantity: "1", ReturnedQuantity: "1", SellingPrice: "40.00"},
	})

	require.Len(t, items, 1)
	assert.True(t, items[0].UnitPrice.Equal(money("-40.00")))
	assert.True(t, items[0].LineTotalPrice.Equal(money("-40.00")))
	assert.Equal(t, "Dirty", items[0].CoreType)
}

func TestDirtyCoreWithoutReturnOmitted(t *testing.T) {
	items := flattenParts(t, []types.Part{
		{Description: "Core Charge", ShopPartNumber: "CORE-1", CoreType: "Dirty",
			Quantity: "1", SellingPrice: "40.00"},
	})

	assert.Empty(t, items)
}

func TestClassifySublet(t *testing.T) {
	items := flattenParts(t, []types.Part{
		{Description: "Windshield replacement", ShopPartNumber: "SUB-1", Quantity: "1", SellingPrice: "450.00", Sublet: "Yes"},
	})

	require.Len(t, items, 1)
	assert.Equal(t, types.LineSublet, items[0].Type)
	assert.True(t, items[0].Sublet)
}

func TestClassifyFreightBeatsSupply(t *testing.T) {
	// "shipping oil pump" matches both vocabularies; freight wins.
	items := flattenParts(t, []types.Part{
		{Description: "Shipping charge for oil pump", Quantity: "1", SellingPrice: "30.00"},
	})

	require.Len(t, items, 1)
	assert.Equal(t, types.LineFreight, items[0].Type)
}

func TestClassifySupplyByVocabulary(t *testing.T) {
	items := flattenParts(t, []types.Part{
		{Description: "15W-40 Engine Oil", PartCategory: "Fluids", Quantity: "1", SellingPrice: "22.00"},
	})

	require.Len(t, items, 1)
	assert.Equal(t, types.LineSupply, items[0].Type)
}

func TestClassifyCustomVocabulary(t *testing.T) {
	inv := sampleInvoice()
	inv.MiscCharges = nil
	inv.SuppliesTotal = ""
	corr := &inv.ServiceOrder.Complaints[0].Corrections[0]
	corr.Parts = []types.Part{
		{Description: "Rag bundle", Quantity: "1", SellingPrice: "4.00"},
	}
	corr.AssignedTechnicians = nil
	corr.LaborHoursTotal = ""
	corr.LaborTotal = ""

	cfg := DefaultConfig()
	cfg.SupplyKeywords = append(cfg.SupplyKeywords, "rag")

	result, err := Flatten(inv, cfg)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, types.LineSupply, result.Items[0].Type)
}
