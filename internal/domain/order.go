package domain

// OrderHeader is one soheader record. Field order follows the fixed
// positional layout of the Amscan export; textual fields default to ""
// and numeric fields to 0 when the source line omits them.
type OrderHeader struct {
	RecordType              string  `json:"recordType"`
	OrderID                 string  `json:"orderId"`
	CustomerAccount         string  `json:"customerAccount"`
	SalesRepCode            string  `json:"salesRepCode"`
	DiscountPercentage      float64 `json:"discountPercentage"`
	OrderValue              float64 `json:"orderValue"`
	DueDate                 string  `json:"dueDate"`
	OrderDate               string  `json:"orderDate"`
	SeasonCode              string  `json:"seasonCode"`
	StatusCode              string  `json:"statusCode"`
	DeliveryName            string  `json:"deliveryName"`
	DeliveryAddressLine1    string  `json:"deliveryAddressLine1"`
	DeliveryAddressLine2    string  `json:"deliveryAddressLine2"`
	DeliveryAddressLine3    string  `json:"deliveryAddressLine3"`
	DeliveryAddressLine4    string  `json:"deliveryAddressLine4"`
	DeliveryAddressLine5    string  `json:"deliveryAddressLine5"`
	DeliveryAddressNumber   string  `json:"deliveryAddressNumber"`
	CustomerReferenceNumber string  `json:"customerReferenceNumber"`
	GenericCode1            string  `json:"genericCode1"`
	Freetype1               string  `json:"freetype1"`
	Freetype2               string  `json:"freetype2"`
	Freetype3               string  `json:"freetype3"`
	Disused                 string  `json:"disused"`
	OrderType               string  `json:"orderType"`
	PriceList               string  `json:"priceList"`
	NoteDate                string  `json:"noteDate"`
	GenericCode18           string  `json:"genericCode18"`
	GenericCode19           string  `json:"genericCode19"`
	GenericCode20           string  `json:"genericCode20"`
	GenericCode21           string  `json:"genericCode21"`
	GenericCode22           string  `json:"genericCode22"`
	GenericCode23           string  `json:"genericCode23"`
	Freetype4               string  `json:"freetype4"`
	Freetype5               string  `json:"freetype5"`
	ManualAddress           string  `json:"manualAddress"`
	OrderTimestamp          string  `json:"orderTimeStamp"`
	PriceCode               string  `json:"priceCode"`
	TemplateID              string  `json:"templateId"`
	PostOrderDiscount       float64 `json:"postOrderDiscount"`
	SignatureName           string  `json:"signatureName"`
	SignatureTimestamp      string  `json:"signatureTimeStamp"`
	LocationCode            string  `json:"locationCode"`
	TermsCode               string  `json:"termsCode"`
	ConfirmationEmail       string  `json:"confirmationEmail"`
	PromotionCode           string  `json:"promotionCode"`
	Weight                  string  `json:"weight"`
	Volume                  string  `json:"volume"`
	DespatchAdvice          string  `json:"despatchAdvice"`
	DespatchType            string  `json:"despatchType"`

	// Set only when the raw value is exactly 8 digits (DD/MM/YYYY).
	DueDateFormatted   string `json:"dueDateFormatted,omitempty"`
	OrderDateFormatted string `json:"orderDateFormatted,omitempty"`
}

// OrderLineItem is one sodetail record belonging to the preceding header.
type OrderLineItem struct {
	RecordType             string  `json:"recordType"`
	ProductCode            string  `json:"productCode"`
	Description            string  `json:"description"`
	QuantityOrdered        float64 `json:"quantityOrdered"`
	LineValue              float64 `json:"lineValue"`
	LineDiscountPercentage float64 `json:"lineDiscountPercentage"`
	GenericCode2           string  `json:"genericCode2"`
	Freetype1              string  `json:"freetype1"`
	UnitPrice              float64 `json:"unitPrice"`
	PriceDiscountSource    string  `json:"priceDiscountSource"`
	LineDueDate            string  `json:"lineDueDate"`
	LocationCode           string  `json:"locationCode"`
	PostOrderDiscount      string  `json:"postOrderDiscount"`
	UnitCode               string  `json:"unitCode"`
	Ratio                  string  `json:"ratio"`
	PriceAdjustmentCode    string  `json:"priceAdjustmentCode"`
	GenericCode25          string  `json:"genericCode25"`
	GenericCode26          string  `json:"genericCode26"`
	Freetype2              string  `json:"freetype2"`
	NettPrice              string  `json:"nettPrice"`
	TemplateID             string  `json:"templateId"`
	BuyPromoID             string  `json:"buyPromoId"`
	GetPromoID             string  `json:"getPromoId"`

	LineDueDateFormatted string `json:"lineDueDateFormatted,omitempty"`

	// CalculatedLineValue is quantity x unit price, set only when the
	// source line carried no line value of its own.
	CalculatedLineValue float64 `json:"calculatedLineValue,omitempty"`
}

// EffectiveLineValue returns the line value as reported, or the derived
// quantity x unit price fallback when the report omitted it.
func (li *OrderLineItem) EffectiveLineValue() float64 {
	if li.LineValue != 0 {
		return li.LineValue
	}
	return li.CalculatedLineValue
}

// OrderGroup is the unit of work handed to the transformer: one header
// and its line items, in input order.
type OrderGroup struct {
	Header *OrderHeader
	Items  []OrderLineItem
}
