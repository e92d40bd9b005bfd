package flatten

import (
	"fmt"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/parse"
	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
)

// workUnit is one schedulable piece of the complaint tree: a correction
// under its complaint, or a bare complaint whose labor was assigned at the
// complaint level (correction == nil).
type workUnit struct {
	complaint  *types.Complaint
	correction *types.Correction
}

// walk produces work units in source order so repeated runs over the same
// document emit rows deterministically. A correction with unparseable
// numeric fields is dropped with a validation warning instead of failing
// the invoice; upstream data is messy at sub-invoice granularity and one
// bad correction must not discard the rest.
func (f *flattener) walk(so *types.ServiceOrder) []workUnit {
	var units []workUnit

	for ci := range so.Complaints {
		complaint := &so.Complaints[ci]

		if len(complaint.Corrections) == 0 {
			if len(complaint.AssignedTechnicians) > 0 {
				units = append(units, workUnit{complaint: complaint})
			}
			continue
		}

		for xi := range complaint.Corrections {
			correction := &complaint.Corrections[xi]
			if err := validateCorrection(correction); err != nil {
				f.report.AddWarning(types.WarningValidation, fmt.Sprintf(
					"skipping correction %s in complaint %s: %v",
					correction.PrimaryKey, complaint.PrimaryKey, err))
				continue
			}
			units = append(units, workUnit{complaint: complaint, correction: correction})
		}
	}

	return units
}

func validateCorrection(corr *types.Correction) error {
	if _, err := parse.Decimal(corr.LaborHoursTotal.String()); err != nil {
		return fmt.Errorf("laborHoursTotal: %w", err)
	}
	if _, err := parse.Decimal(corr.LaborTotal.String()); err != nil {
		return fmt.Errorf("laborTotal: %w", err)
	}
	for i := range corr.Parts {
		p := &corr.Parts[i]
		if _, err := parse.Decimal(p.Quantity.String()); err != nil {
			return fmt.Errorf("part %s quantity: %w", p.PrimaryKey, err)
		}
		if _, err := parse.Decimal(p.SellingPrice.String()); err != nil {
			return fmt.Errorf("part %s sellingPrice: %w", p.PrimaryKey, err)
		}
		if _, err := parse.Decimal(p.Cost.String()); err != nil {
			return fmt.Errorf("part %s cost: %w", p.PrimaryKey, err)
		}
	}
	return nil
}
