package domain

// Fixed payload constants carried on every submitted order.
const (
	OrderCurrency      = "GBP"
	OrderStage         = "order"
	OrderSourceType    = "other"
	OrderSourceID      = "0e95de59-6f4c-4f69-9ec1-0d82e3b5f759"
	ShippingOption     = "historicOrder"
	ShippingCountry    = "GB"
	FulfilmentDelivery = "delivery"
)

type PersonName struct {
	Forename string `json:"forename"`
	Surname  string `json:"surname"`
}

type Address struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Postcode string `json:"postcode"`
	Region   string `json:"region"`
}

type ShippingBlock struct {
	Name    PersonName `json:"name"`
	Address Address    `json:"address"`
	Option  string     `json:"option"`
	Cost    float64    `json:"cost"`
	Tax     float64    `json:"tax"`
}

type CustomerBlock struct {
	CustomerID string     `json:"customerId"`
	Name       PersonName `json:"name"`
	Address    Address    `json:"address"`
}

// ReconciledItem is a line item whose product code resolved to a catalog id.
// Monetary display fields are rounded to 4 decimal places.
type ReconciledItem struct {
	ItemID         string  `json:"itemId"`
	SKU            string  `json:"sku"`
	Quantity       float64 `json:"quantity"`
	Price          float64 `json:"price"`
	Discount       float64 `json:"discount"`
	LineDiscount   float64 `json:"lineDiscount"`
	LinePrice      float64 `json:"linePrice"`
	LineTotal      float64 `json:"lineTotal"`
	Tax            float64 `json:"tax"`
	TaxRate        float64 `json:"taxRate"`
	FulfilmentType string  `json:"fulfilmentType"`
}

// SkippedItem summarises a line item dropped because its product code was
// absent from the catalog. Kept for observability only, never submitted.
type SkippedItem struct {
	ProductCode string  `json:"productCode"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
}

type OrderMetadata struct {
	SourceFile        string        `json:"sourceFile,omitempty"`
	MissingSkus       []string      `json:"missingSkus"`
	SkippedItemsCount int           `json:"skippedItemsCount"`
	SkippedItems      []SkippedItem `json:"skippedItems"`
}

// ReconciledOrder is the API-ready payload built from one OrderGroup.
// Invariant: Items is never empty; an order with zero resolved items is a
// hard failure upstream and is never constructed, let alone submitted.
type ReconciledOrder struct {
	CreatedAt         string           `json:"createdAt"`
	Currency          string           `json:"currency"`
	Stage             string           `json:"stage"`
	SourceType        string           `json:"sourceType"`
	SourceReferenceID string           `json:"sourceReferenceId"`
	SourceID          string           `json:"sourceId"`
	CustomerReference string           `json:"customerReference"`
	Shipping          ShippingBlock    `json:"shipping"`
	Customer          CustomerBlock    `json:"customer"`
	Items             []ReconciledItem `json:"items"`
	Metadata          OrderMetadata    `json:"_metadata"`
}
