package types

// Raw Fullbay invoice document as delivered by the getInvoices endpoint.
// Every node is modeled explicitly instead of probing map keys at runtime,
// so an absent object, a null, and an empty string stay distinguishable.
//
// Monetary and quantity fields arrive inconsistently typed (sometimes a
// JSON string like "1,650.00", sometimes a bare number), hence FlexString.

type Invoice struct {
	PrimaryKey             FlexString `json:"primaryKey"`
	InvoiceNumber          FlexString `json:"invoiceNumber"`
	InvoiceDate            string     `json:"invoiceDate"`
	DueDate                string     `json:"dueDate"`
	Exported               FlexString `json:"exported"`
	ShopTitle              string     `json:"shopTitle"`
	ShopEmail              string     `json:"shopEmail"`
	ShopPhysicalAddress    string     `json:"shopPhysicalAddress"`
	CustomerBillingAddress string     `json:"customerBillingAddress"`

	SubTotal FlexString `json:"subTotal"`
	TaxRate  FlexString `json:"taxRate"`
	TaxTotal FlexString `json:"taxTotal"`
	Total    FlexString `json:"total"`

	MiscChargeTotal  FlexString `json:"miscChargeTotal"`
	SuppliesTotal    FlexString `json:"suppliesTotal"`
	ServiceCallTotal FlexString `json:"serviceCallTotal"`
	MileageTotal     FlexString `json:"mileageTotal"`

	Customer     *Customer     `json:"Customer"`
	ServiceOrder *ServiceOrder `json:"ServiceOrder"`
	MiscCharges  []MiscCharge  `json:"miscCharges"`
}

type Customer struct {
	CustomerID     FlexString `json:"customerId"`
	Title          string     `json:"title"`
	ExternalID     string     `json:"externalId"`
	MainPhone      string     `json:"mainPhone"`
	SecondaryPhone string     `json:"secondaryPhone"`
}

type ServiceOrder struct {
	PrimaryKey         FlexString `json:"primaryKey"`
	RepairOrderNumber  string     `json:"repairOrderNumber"`
	Created            string     `json:"created"`
	StartDateTime      string     `json:"startDateTime"`
	CompletionDateTime string     `json:"completionDateTime"`
	Technician         string     `json:"technician"`
	TechnicianNumber   string     `json:"technicianNumber"`

	PartsCostTotal  FlexString `json:"partsCostTotal"`
	PartsTotal      FlexString `json:"partsTotal"`
	LaborHoursTotal FlexString `json:"laborHoursTotal"`
	LaborTotal      FlexString `json:"laborTotal"`

	Customer   *Customer   `json:"Customer"`
	Unit       *Unit       `json:"Unit"`
	Complaints []Complaint `json:"Complaints"`
}

type Unit struct {
	CustomerUnitID FlexString `json:"customerUnitId"`
	Number         string     `json:"number"`
	Type           string     `json:"type"`
	Year           FlexString `json:"year"`
	Make           string     `json:"make"`
	Model          string     `json:"model"`
	VIN            string     `json:"vin"`
	LicensePlate   string     `json:"licensePlate"`
}

type Complaint struct {
	PrimaryKey FlexString `json:"primaryKey"`
	Type       string     `json:"type"`
	SubType    string     `json:"subType"`
	Note       string     `json:"note"`
	Cause      string     `json:"cause"`
	Authorized string     `json:"authorized"`
	Severity   string     `json:"severity"`

	AssignedTechnicians []TechnicianAssignment `json:"AssignedTechnicians"`
	Corrections         []Correction           `json:"Corrections"`
}

type Correction struct {
	PrimaryKey            FlexString `json:"primaryKey"`
	Title                 string     `json:"title"`
	GlobalComponent       string     `json:"globalComponent"`
	GlobalSystem          string     `json:"globalSystem"`
	GlobalService         string     `json:"globalService"`
	RecommendedCorrection string     `json:"recommendedCorrection"`
	ActualCorrection      string     `json:"actualCorrection"`
	CorrectionPerformed   string     `json:"correctionPerformed"`
	PreAuthorized         string     `json:"preAuthorized"`
	PrePaid               string     `json:"prePaid"`

	LaborRate       string     `json:"laborRate"`
	LaborHoursTotal FlexString `json:"laborHoursTotal"`
	LaborTotal      FlexString `json:"laborTotal"`
	Taxable         string     `json:"taxable"`

	Parts               []Part                 `json:"Parts"`
	AssignedTechnicians []TechnicianAssignment `json:"AssignedTechnicians"`
}

type Part struct {
	PrimaryKey       FlexString `json:"primaryKey"`
	Description      string     `json:"description"`
	ShopPartNumber   string     `json:"shopPartNumber"`
	VendorPartNumber string     `json:"vendorPartNumber"`
	PartCategory     string     `json:"partCategory"`

	Quantity             FlexString `json:"quantity"`
	ToBeReturnedQuantity FlexString `json:"toBeReturnedQuantity"`
	ReturnedQuantity     FlexString `json:"returnedQuantity"`

	Cost                   FlexString `json:"cost"`
	SellingPrice           FlexString `json:"sellingPrice"`
	SellingPriceOverridden string     `json:"sellingPriceOverridden"`

	Taxable   string `json:"taxable"`
	Inventory string `json:"inventory"`
	CoreType  string `json:"coreType"`
	Sublet    string `json:"sublet"`
}

type TechnicianAssignment struct {
	Technician       string     `json:"technician"`
	TechnicianNumber string     `json:"technicianNumber"`
	ActualHours      FlexString `json:"actualHours"`
	Portion          FlexString `json:"portion"`
}

type MiscCharge struct {
	Description        string     `json:"description"`
	QuickBooksItemType string     `json:"quickbooksItemType"`
	Amount             FlexString `json:"amount"`
}
