package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
)

func flattenLabor(t *testing.T, mutate func(*types.Invoice)) []types.LineItem {
	t.Helper()
	inv := sampleInvoice()
	inv.MiscCharges = nil
	inv.SuppliesTotal = ""
	inv.ServiceOrder.Complaints[0].Corrections[0].Parts = nil
	mutate(inv)

	result, err := Flatten(inv, DefaultConfig())
	require.NoError(t, err)
	return itemsOfType(result.Items, types.LineLabor)
}

func TestLaborRecordedHoursWinOverDerived(t *testing.T) {
	labor := flattenLabor(t, func(inv *types.Invoice) {
		corr := &inv.ServiceOrder.Complaints[0].Corrections[0]
		corr.AssignedTechnicians = []types.TechnicianAssignment{
			{Technician: "Pat Doyle", TechnicianNumber: "T-07", Portion: "60", ActualHours: "2.2"},
			{Technician: "Sam Ruiz", TechnicianNumber: "T-11", Portion: "40"},
		}
	})

	require.Len(t, labor, 2)
	assert.True(t, labor[0].Hours.Equal(money("2.2")), "recorded hours are kept as is")
	assert.True(t, labor[1].Hours.Equal(money("1.2")), "missing hours derive from portion: 3h * 40%")
	assert.True(t, labor[0].LineTotalPrice.Equal(money("180.00")))
	assert.True(t, labor[1].LineTotalPrice.Equal(money("120.00")))
}

func TestLaborDuplicateTechnicianFoldsIntoOneRow(t *testing.T) {
	labor := flattenLabor(t, func(inv *types.Invoice) {
		corr := &inv.ServiceOrder.Complaints[0].Corrections[0]
		corr.AssignedTechnicians = []types.TechnicianAssignment{
			{Technician: "Pat Doyle", TechnicianNumber: "T-07", Portion: "30", ActualHours: "1"},
			{Technician: "Pat Doyle", TechnicianNumber: "T-07", Portion: "70", ActualHours: "2"},
		}
	})

	require.Len(t, labor, 1)
	assert.Equal(t, 100, labor[0].TechnicianPortion)
	assert.True(t, labor[0].Hours.Equal(money("3")))
	assert.True(t, labor[0].LineTotalPrice.Equal(money("300.00")))
}

func TestLaborNoAssignmentsFallsBackToPrimaryTechnician(t *testing.T) {
	labor := flattenLabor(t, func(inv *types.Invoice) {
		inv.ServiceOrder.Complaints[0].Corrections[0].AssignedTechnicians = nil
	})

	require.Len(t, labor, 1)
	assert.Equal(t, "Pat Doyle", labor[0].AssignedTechnician)
	assert.Equal(t, "T-07", labor[0].AssignedTechnicianNumber)
	assert.Equal(t, 100, labor[0].TechnicianPortion)
	assert.True(t, labor[0].Hours.Equal(money("3")))
	assert.True(t, labor[0].LineTotalPrice.Equal(money("300.00")))
}

func TestLaborZeroHoursNoAssignmentsEmitsNothing(t *testing.T) {
	labor := flattenLabor(t, func(inv *types.Invoice) {
		corr := &inv.ServiceOrder.Complaints[0].Corrections[0]
		corr.AssignedTechnicians = nil
		corr.LaborHoursTotal = "0"
		corr.LaborTotal = "0"
	})

	assert.Empty(t, labor)
}

func TestLaborComplaintLevelAssignments(t *testing.T) {
	labor := flattenLabor(t, func(inv *types.Invoice) {
		complaint := &inv.ServiceOrder.Complaints[0]
		complaint.Corrections = nil
		complaint.AssignedTechnicians = []types.TechnicianAssignment{
			{Technician: "Sam Ruiz", TechnicianNumber: "T-11", Portion: "100", ActualHours: "1.5"},
		}
	})

	require.Len(t, labor, 1)
	assert.Nil(t, labor[0].CorrectionID, "diagnostic-only complaints carry no correction")
	require.NotNil(t, labor[0].ComplaintID)
	assert.True(t, labor[0].Hours.Equal(money("1.5")))
	assert.True(t, labor[0].LineTotalPrice.IsZero(), "no correction means no labor value to apportion")
}

func TestLaborTaxableWhenCorrectionSaysSo(t *testing.T) {
	labor := flattenLabor(t, func(inv *types.Invoice) {
		inv.ServiceOrder.Complaints[0].Corrections[0].Taxable = "Yes"
	})

	require.Len(t, labor, 2)
	for _, li := range labor {
		assert.True(t, li.Taxable)
		assert.False(t, li.LineTax.IsZero())
	}
}
