package sheets

import "time"

const (
	CategoryLinen     = "LINEN"
	CategoryTowel     = "TOWEL"
	CategoryProtector = "PROTECTOR"

	SubtypeTablecloth = "TABLECLOTH"

	// TypeIndividual sheets are priced per weighed item; TypeStandard sheets
	// are priced off a single declared total weight.
	TypeIndividual = "INDIVIDUAL"
	TypeStandard   = "STANDARD"
)

type OperationalSheet struct {
	ID                  string     `json:"id"`
	CustomerName        string     `json:"customerName"`
	Date                time.Time  `json:"date"`
	SheetType           string     `json:"sheetType"`
	PricePerKg          float64    `json:"pricePerKg"`
	TotalWeightOverride *float64   `json:"totalWeightOverride,omitempty"`
	TotalPriceOverride  *float64   `json:"totalPriceOverride,omitempty"`
	SendCount           int        `json:"sendCount"`
	CreatedAt           time.Time  `json:"createdAt"`
	Items               []LineItem `json:"items,omitempty"`
}

type LineItem struct {
	ID         string  `json:"id"`
	Category   string  `json:"category"`
	Subtype    string  `json:"subtype,omitempty"`
	Name       string  `json:"name"`
	Weight     float64 `json:"weight"`
	Received   int     `json:"received"`
	Washed     int     `json:"washed"`
	Dispatched int     `json:"dispatched"`
	Shortage   int     `json:"shortage"`
	UnitPrice  float64 `json:"unitPrice"`
}
