package flatten

import (
	"github.com/kerrybros/fullbay-ingest/internal/fullbay/parse"
	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
)

// NormalizeInvoice builds the immutable per-invoice context from the top of
// the document. It is the only place a whole invoice can fail: a missing
// invoice id or invoice number makes the document unidentifiable and
// therefore unpersistable. Every other absent field degrades to a
// documented default.
func NormalizeInvoice(inv *types.Invoice) (*types.InvoiceContext, error) {
	if inv == nil {
		return nil, &MalformedInvoiceError{Reason: "empty document"}
	}
	if inv.PrimaryKey.Empty() {
		return nil, &MalformedInvoiceError{Reason: "missing primaryKey"}
	}
	if inv.InvoiceNumber.Empty() {
		return nil, &MalformedInvoiceError{
			InvoiceID: inv.PrimaryKey.String(),
			Reason:    "missing invoiceNumber",
		}
	}

	so := inv.ServiceOrder
	if so == nil {
		so = &types.ServiceOrder{}
	}

	// The service-order customer is the billed party when present; the
	// invoice-level customer is the fallback.
	customer := so.Customer
	if customer == nil {
		customer = inv.Customer
	}
	if customer == nil {
		customer = &types.Customer{}
	}

	ctx := &types.InvoiceContext{
		InvoiceID:     inv.PrimaryKey.String(),
		InvoiceNumber: inv.InvoiceNumber.String(),
		InvoiceDate:   parse.Date(inv.InvoiceDate),
		DueDate:       parse.Date(inv.DueDate),
		Exported:      parse.YesNo(inv.Exported.String()),

		ShopTitle:   inv.ShopTitle,
		ShopEmail:   inv.ShopEmail,
		ShopAddress: inv.ShopPhysicalAddress,

		CustomerID:             parse.Int64(customer.CustomerID.String()),
		CustomerTitle:          customer.Title,
		CustomerExternalID:     customer.ExternalID,
		CustomerMainPhone:      customer.MainPhone,
		CustomerSecondaryPhone: customer.SecondaryPhone,
		CustomerBillingAddress: inv.CustomerBillingAddress,

		ServiceOrderID:             so.PrimaryKey.String(),
		RepairOrderNumber:          so.RepairOrderNumber,
		ServiceOrderCreated:        parse.DateTime(so.Created),
		ServiceOrderStartDate:      parse.DateTime(so.StartDateTime),
		ServiceOrderCompletionDate: parse.DateTime(so.CompletionDateTime),

		PrimaryTechnician:       so.Technician,
		PrimaryTechnicianNumber: so.TechnicianNumber,

		SubTotal:        parse.DecimalOrZero(inv.SubTotal.String()),
		TaxRate:         parse.DecimalOrZero(inv.TaxRate.String()),
		TaxTotal:        parse.DecimalOrZero(inv.TaxTotal.String()),
		Total:           parse.DecimalOrZero(inv.Total.String()),
		PartsTotal:      parse.DecimalOrZero(so.PartsTotal.String()),
		LaborHoursTotal: parse.DecimalOrZero(so.LaborHoursTotal.String()),
		LaborTotal:      parse.DecimalOrZero(so.LaborTotal.String()),

		MiscChargeTotal:  parse.DecimalOrZero(inv.MiscChargeTotal.String()),
		SuppliesTotal:    parse.DecimalOrZero(inv.SuppliesTotal.String()),
		ServiceCallTotal: parse.DecimalOrZero(inv.ServiceCallTotal.String()),
		MileageTotal:     parse.DecimalOrZero(inv.MileageTotal.String()),
	}

	if unit := so.Unit; unit != nil {
		ctx.HasUnit = true
		ctx.UnitID = unit.CustomerUnitID.String()
		ctx.UnitNumber = unit.Number
		ctx.UnitType = unit.Type
		ctx.UnitYear = unit.Year.String()
		ctx.UnitMake = unit.Make
		ctx.UnitModel = unit.Model
		ctx.UnitVIN = unit.VIN
		ctx.UnitLicensePlate = unit.LicensePlate
	}

	return ctx, nil
}

// base seeds a LineItem with the flattened invoice context. Each emitted
// row starts here; complaint, correction and type-specific fields are
// layered on by the producing component.
func (f *flattener) base() types.LineItem {
	ctx := f.ctx
	return types.LineItem{
		InvoiceID:     ctx.InvoiceID,
		InvoiceNumber: ctx.InvoiceNumber,
		InvoiceDate:   ctx.InvoiceDate,
		DueDate:       ctx.DueDate,
		Exported:      ctx.Exported,
		ShopTitle:     ctx.ShopTitle,
		ShopEmail:     ctx.ShopEmail,
		ShopAddress:   ctx.ShopAddress,

		CustomerID:             ctx.CustomerID,
		CustomerTitle:          ctx.CustomerTitle,
		CustomerExternalID:     ctx.CustomerExternalID,
		CustomerMainPhone:      ctx.CustomerMainPhone,
		CustomerSecondaryPhone: ctx.CustomerSecondaryPhone,
		CustomerBillingAddress: ctx.CustomerBillingAddress,

		ServiceOrderID:             ctx.ServiceOrderID,
		RepairOrderNumber:          ctx.RepairOrderNumber,
		ServiceOrderCreated:        ctx.ServiceOrderCreated,
		ServiceOrderStartDate:      ctx.ServiceOrderStartDate,
		ServiceOrderCompletionDate: ctx.ServiceOrderCompletionDate,

		UnitID:           ctx.UnitID,
		UnitNumber:       ctx.UnitNumber,
		UnitType:         ctx.UnitType,
		UnitYear:         ctx.UnitYear,
		UnitMake:         ctx.UnitMake,
		UnitModel:        ctx.UnitModel,
		UnitVIN:          ctx.UnitVIN,
		UnitLicensePlate: ctx.UnitLicensePlate,

		PrimaryTechnician:       ctx.PrimaryTechnician,
		PrimaryTechnicianNumber: ctx.PrimaryTechnicianNumber,

		SuppliesTotal:      ctx.SuppliesTotal,
		IngestionTimestamp: f.now,
		IngestionSource:    f.cfg.IngestionSource,
	}
}

func (f *flattener) applyComplaint(li *types.LineItem, c *types.Complaint) {
	id := parse.Int64(c.PrimaryKey.String())
	if id != 0 {
		li.ComplaintID = &id
	}
	li.ComplaintType = c.Type
	li.ComplaintSubType = c.SubType
	li.ComplaintNote = c.Note
	li.ComplaintCause = c.Cause
	li.ComplaintAuthorized = parse.YesNo(c.Authorized)
	li.ComplaintSeverity = c.Severity
}

func (f *flattener) applyCorrection(li *types.LineItem, corr *types.Correction) {
	id := parse.Int64(corr.PrimaryKey.String())
	if id != 0 {
		li.CorrectionID = &id
	}
	li.CorrectionTitle = corr.Title
	li.GlobalComponent = corr.GlobalComponent
	li.GlobalSystem = corr.GlobalSystem
	li.GlobalService = corr.GlobalService
	li.RecommendedCorrection = corr.RecommendedCorrection
	li.ServiceDescription = serviceDescription(corr)
}

// serviceDescription prefers the work actually performed over the
// recommendation.
func serviceDescription(corr *types.Correction) string {
	if corr.ActualCorrection != "" {
		return corr.ActualCorrection
	}
	return corr.RecommendedCorrection
}
