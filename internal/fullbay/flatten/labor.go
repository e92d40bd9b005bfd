package flatten

import (
	"github.com/shopspring/decimal"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/parse"
	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
)

var oneHundred = decimal.NewFromInt(100)

// laborRows splits a work unit's labor into one row per technician.
//
// Zero assignments with recorded hours fall back to the service order's
// primary technician at full portion. With assignments, each technician's
// recorded hours win; absent hours are derived from the correction total
// by portion. Cost is always apportioned from the correction's labor
// total. A technician listed twice in the source folds into one row.
func (f *flattener) laborRows(u workUnit) []types.LineItem {
	assignments := u.complaint.AssignedTechnicians
	if u.correction != nil && len(u.correction.AssignedTechnicians) > 0 {
		assignments = u.correction.AssignedTechnicians
	}

	var totalHours, laborTotal decimal.Decimal
	if u.correction != nil {
		totalHours = parse.DecimalOrZero(u.correction.LaborHoursTotal.String())
		laborTotal = parse.DecimalOrZero(u.correction.LaborTotal.String())
	}

	if len(assignments) == 0 {
		if !totalHours.IsPositive() {
			return nil
		}
		li := f.newLaborRow(u)
		li.AssignedTechnician = f.ctx.PrimaryTechnician
		li.AssignedTechnicianNumber = f.ctx.PrimaryTechnicianNumber
		li.Hours = totalHours
		li.TechnicianPortion = 100
		li.LineTotalPrice = laborTotal
		return []types.LineItem{li}
	}

	type techShare struct {
		assignment *types.TechnicianAssignment
		hours      decimal.Decimal
		portion    int
		hasHours   bool
	}

	shares := make(map[string]*techShare)
	var order []string

	for i := range assignments {
		a := &assignments[i]
		key := a.Technician + "|" + a.TechnicianNumber

		s, exists := shares[key]
		if !exists {
			s = &techShare{assignment: a}
			shares[key] = s
			order = append(order, key)
		}
		s.portion += parse.Int(a.Portion.String(), 100)
		if !a.ActualHours.Empty() {
			s.hours = s.hours.Add(parse.DecimalOrZero(a.ActualHours.String()))
			s.hasHours = true
		}
	}

	items := make([]types.LineItem, 0, len(order))
	for _, key := range order {
		s := shares[key]
		portion := decimal.NewFromInt(int64(s.portion))

		hours := s.hours
		if !s.hasHours {
			hours = totalHours.Mul(portion).Div(oneHundred)
		}

		li := f.newLaborRow(u)
		li.AssignedTechnician = s.assignment.Technician
		li.AssignedTechnicianNumber = s.assignment.TechnicianNumber
		li.Hours = hours
		li.TechnicianPortion = s.portion
		li.LineTotalPrice = laborTotal.Mul(portion).Div(oneHundred).Round(2)
		items = append(items, li)
	}

	return items
}

func (f *flattener) newLaborRow(u workUnit) types.LineItem {
	li := f.base()
	f.applyComplaint(&li, u.complaint)

	li.Type = types.LineLabor
	li.Quantity = decimal.NewFromInt(1)
	// Labor is untaxed unless the correction states otherwise.
	li.Taxable = false

	if u.correction != nil {
		f.applyCorrection(&li, u.correction)
		li.LaborDescription = serviceDescription(u.correction)
		li.LaborRateType = u.correction.LaborRate
		li.Taxable = parse.YesNo(u.correction.Taxable)
	}
	return li
}
