package pricing

import (
	"github.com/shopspring/decimal"

	"antesala/internal/catalog"
)

func init() {
	// Persisted breakdowns keep money as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// AdditionalServices are the optional flat-fee services
type AdditionalServices struct {
	AudioVisual bool `json:"audioVisual"`
	Decorations bool `json:"decorations"`
	Waitstaff   bool `json:"waitstaff"`
	Valet       bool `json:"valet"`
}

// Enabled returns the enabled service keys in display order
func (s AdditionalServices) Enabled() []string {
	var keys []string
	if s.AudioVisual {
		keys = append(keys, catalog.ServiceAudioVisual)
	}
	if s.Decorations {
		keys = append(keys, catalog.ServiceDecorations)
	}
	if s.Waitstaff {
		keys = append(keys, catalog.ServiceWaitstaff)
	}
	if s.Valet {
		keys = append(keys, catalog.ServiceValet)
	}
	return keys
}

// Request is everything the engine needs to price one event
type Request struct {
	GuestCount         int
	FoodType           string
	FoodUnitPrice      decimal.Decimal
	RoomType           string
	RoomUnitPrice      decimal.Decimal
	Beverages          SelectionMap
	Entremeses         SelectionMap
	Services           AdditionalServices
	EventDurationHours int
	TipPercentage      decimal.Decimal
	DepositPercentage  decimal.Decimal
}

type Taxes struct {
	FoodStateTax decimal.Decimal `json:"foodStateReducedTax"`
	FoodCityTax  decimal.Decimal `json:"foodCityTax"`
	AlcoholTax   decimal.Decimal `json:"alcoholStateTax"`
	Total        decimal.Decimal `json:"totalTaxes"`
}

type Tip struct {
	Percentage decimal.Decimal `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
}

// LineCategory groups line items on an invoice
type LineCategory string

const (
	LineFood       LineCategory = "food"
	LineBeverage   LineCategory = "beverage"
	LineEntremeses LineCategory = "entremeses"
	LineRoom       LineCategory = "room"
	LineService    LineCategory = "service"
)

// LineItem is one priced row. Quantity is the guest count for per-guest rows
// and the hour count for the room row.
type LineItem struct {
	Category    LineCategory    `json:"category"`
	ItemID      string          `json:"itemId"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	PerGuest    bool            `json:"perGuest,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// Breakdown is the frozen result of pricing a reservation
type Breakdown struct {
	RoomCost            decimal.Decimal `json:"roomCost"`
	FoodCost            decimal.Decimal `json:"foodCost"`
	DrinkCost           decimal.Decimal `json:"drinkCost"`
	EntremesesCost      decimal.Decimal `json:"entremesesCost"`
	AdditionalCost      decimal.Decimal `json:"additionalCost"`
	Taxes               Taxes           `json:"taxes"`
	Tip                 Tip             `json:"tip"`
	SubtotalBeforeTaxes decimal.Decimal `json:"subtotalBeforeTaxes"`
	TotalCost           decimal.Decimal `json:"totalCost"`
	DepositAmount       decimal.Decimal `json:"depositAmount"`
	DepositPercentage   decimal.Decimal `json:"depositPercentage"`
	GuestCount          int             `json:"guestCount"`
	EventDuration       int             `json:"eventDuration"`
	LineItems           []LineItem      `json:"lineItems,omitempty"`
}

// LinesFor returns the line items of one category in engine order
func (b Breakdown) LinesFor(category LineCategory) []LineItem {
	var lines []LineItem
	for _, l := range b.LineItems {
		if l.Category == category {
			lines = append(lines, l)
		}
	}
	return lines
}
