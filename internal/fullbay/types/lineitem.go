package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineType discriminates the flattened row kinds.
type LineType string

const (
	LinePart        LineType = "PART"
	LineSupply      LineType = "SUPPLY"
	LineFreight     LineType = "FREIGHT"
	LineMisc        LineType = "MISC"
	LineLabor       LineType = "LABOR"
	LineSublet      LineType = "SUBLET"
	LineServiceCall LineType = "SERVICE_CALL"
	LineMileage     LineType = "MILEAGE"
)

// LineItem is one flattened row of the canonical schema. The struct is the
// authoritative column set; the fullbay_line_items table matches it field
// for field. Rows are built once by the flattener and never mutated after
// emission.
type LineItem struct {
	ID        int64 `db:"id" json:"id,omitempty"`
	RawDataID int64 `db:"raw_data_id" json:"raw_data_id,omitempty"`

	// Invoice level
	InvoiceID     string     `db:"fullbay_invoice_id" json:"fullbay_invoice_id"`
	InvoiceNumber string     `db:"invoice_number" json:"invoice_number"`
	InvoiceDate   *time.Time `db:"invoice_date" json:"invoice_date"`
	DueDate       *time.Time `db:"due_date" json:"due_date"`
	Exported      bool       `db:"exported" json:"exported"`
	ShopTitle     string     `db:"shop_title" json:"shop_title"`
	ShopEmail     string     `db:"shop_email" json:"shop_email"`
	ShopAddress   string     `db:"shop_address" json:"shop_address"`

	// Customer
	CustomerID             int64  `db:"customer_id" json:"customer_id"`
	CustomerTitle          string `db:"customer_title" json:"customer_title"`
	CustomerExternalID     string `db:"customer_external_id" json:"customer_external_id"`
	CustomerMainPhone      string `db:"customer_main_phone" json:"customer_main_phone"`
	CustomerSecondaryPhone string `db:"customer_secondary_phone" json:"customer_secondary_phone"`
	CustomerBillingAddress string `db:"customer_billing_address" json:"customer_billing_address"`

	// Service order
	ServiceOrderID             string     `db:"fullbay_service_order_id" json:"fullbay_service_order_id"`
	RepairOrderNumber          string     `db:"repair_order_number" json:"repair_order_number"`
	ServiceOrderCreated        *time.Time `db:"service_order_created" json:"service_order_created"`
	ServiceOrderStartDate      *time.Time `db:"service_order_start_date" json:"service_order_start_date"`
	ServiceOrderCompletionDate *time.Time `db:"service_order_completion_date" json:"service_order_completion_date"`

	// Unit / vehicle
	UnitID           string `db:"unit_id" json:"unit_id"`
	UnitNumber       string `db:"unit" json:"unit"`
	UnitType         string `db:"unit_type" json:"unit_type"`
	UnitYear         string `db:"unit_year" json:"unit_year"`
	UnitMake         string `db:"unit_make" json:"unit_make"`
	UnitModel        string `db:"unit_model" json:"unit_model"`
	UnitVIN          string `db:"unit_vin" json:"unit_vin"`
	UnitLicensePlate string `db:"unit_license_plate" json:"unit_license_plate"`

	// Primary technician
	PrimaryTechnician       string `db:"primary_technician" json:"primary_technician"`
	PrimaryTechnicianNumber string `db:"primary_technician_number" json:"primary_technician_number"`

	// Complaint (nil for invoice-level rows)
	ComplaintID         *int64 `db:"fullbay_complaint_id" json:"fullbay_complaint_id"`
	ComplaintType       string `db:"complaint_type" json:"complaint_type"`
	ComplaintSubType    string `db:"complaint_subtype" json:"complaint_subtype"`
	ComplaintNote       string `db:"complaint_note" json:"complaint_note"`
	ComplaintCause      string `db:"complaint_cause" json:"complaint_cause"`
	ComplaintAuthorized bool   `db:"complaint_authorized" json:"complaint_authorized"`
	ComplaintSeverity   string `db:"complaint_severity" json:"complaint_severity"`

	// Correction (nil for complaint-level labor and invoice-level rows)
	CorrectionID          *int64 `db:"fullbay_correction_id" json:"fullbay_correction_id"`
	CorrectionTitle       string `db:"correction_title" json:"correction_title"`
	GlobalComponent       string `db:"global_component" json:"global_component"`
	GlobalSystem          string `db:"global_system" json:"global_system"`
	GlobalService         string `db:"global_service" json:"global_service"`
	RecommendedCorrection string `db:"recommended_correction" json:"recommended_correction"`
	ServiceDescription    string `db:"service_description" json:"service_description"`

	// Discriminator and type-specific identifiers
	Type                     LineType `db:"line_item_type" json:"line_item_type"`
	PartID                   string   `db:"fullbay_part_id" json:"fullbay_part_id"`
	PartDescription          string   `db:"part_description" json:"part_description"`
	ShopPartNumber           string   `db:"shop_part_number" json:"shop_part_number"`
	VendorPartNumber         string   `db:"vendor_part_number" json:"vendor_part_number"`
	PartCategory             string   `db:"part_category" json:"part_category"`
	LaborDescription         string   `db:"labor_description" json:"labor_description"`
	LaborRateType            string   `db:"labor_rate_type" json:"labor_rate_type"`
	AssignedTechnician       string   `db:"assigned_technician" json:"assigned_technician"`
	AssignedTechnicianNumber string   `db:"assigned_technician_number" json:"assigned_technician_number"`

	// Quantities
	Quantity             decimal.Decimal `db:"quantity" json:"quantity"`
	ToBeReturnedQuantity decimal.Decimal `db:"to_be_returned_quantity" json:"to_be_returned_quantity"`
	ReturnedQuantity     decimal.Decimal `db:"returned_quantity" json:"returned_quantity"`

	// Hours (labor rows)
	Hours             decimal.Decimal `db:"so_hours" json:"so_hours"`
	TechnicianPortion int             `db:"technician_portion" json:"technician_portion"`

	// Financials
	UnitCost        decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	UnitPrice       decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotalCost   decimal.Decimal `db:"line_total_cost" json:"line_total_cost"`
	LineTotalPrice  decimal.Decimal `db:"line_total" json:"line_total"`
	PriceOverridden bool            `db:"price_overridden" json:"price_overridden"`

	// Tax
	Taxable    bool            `db:"taxable" json:"taxable"`
	TaxRate    decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	LineTax    decimal.Decimal `db:"line_tax" json:"line_tax"`
	SalesTotal decimal.Decimal `db:"sales_total" json:"sales_total"`

	// Classification flags
	InventoryItem bool   `db:"inventory_item" json:"inventory_item"`
	CoreType      string `db:"core_type" json:"core_type"`
	Sublet        bool   `db:"sublet" json:"sublet"`

	// True for rows derived from invoice-aggregate charges rather than a
	// correction or complaint.
	InvoiceLevel bool `db:"invoice_level" json:"invoice_level"`

	// Invoice-level supplies total carried for context on every row.
	SuppliesTotal decimal.Decimal `db:"so_supplies_total" json:"so_supplies_total"`

	// Metadata
	IngestionTimestamp time.Time `db:"ingestion_timestamp" json:"ingestion_timestamp"`
	IngestionSource    string    `db:"ingestion_source" json:"ingestion_source"`
}
