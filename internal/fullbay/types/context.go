package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceContext is the normalized, read-only top of an invoice document.
// It is built once per invoice and copied into every emitted LineItem.
type InvoiceContext struct {
	InvoiceID     string
	InvoiceNumber string
	InvoiceDate   *time.Time
	DueDate       *time.Time
	Exported      bool

	ShopTitle   string
	ShopEmail   string
	ShopAddress string

	CustomerID             int64
	CustomerTitle          string
	CustomerExternalID     string
	CustomerMainPhone      string
	CustomerSecondaryPhone string
	CustomerBillingAddress string

	ServiceOrderID             string
	RepairOrderNumber          string
	ServiceOrderCreated        *time.Time
	ServiceOrderStartDate      *time.Time
	ServiceOrderCompletionDate *time.Time

	HasUnit          bool
	UnitID           string
	UnitNumber       string
	UnitType         string
	UnitYear         string
	UnitMake         string
	UnitModel        string
	UnitVIN          string
	UnitLicensePlate string

	PrimaryTechnician       string
	PrimaryTechnicianNumber string

	// Invoice aggregates used by the charge extractor and reconciliation.
	SubTotal        decimal.Decimal
	TaxRate         decimal.Decimal
	TaxTotal        decimal.Decimal
	Total           decimal.Decimal
	PartsTotal      decimal.Decimal
	LaborHoursTotal decimal.Decimal
	LaborTotal      decimal.Decimal

	MiscChargeTotal  decimal.Decimal
	SuppliesTotal    decimal.Decimal
	ServiceCallTotal decimal.Decimal
	MileageTotal     decimal.Decimal
}
