package invoices

import (
	"github.com/shopspring/decimal"
)

// IncludedLabel replaces the amount of services that carry no fee
const IncludedLabel = "Incluido"

// Venue is the letterhead printed on every invoice
type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

var DefaultVenue = Venue{
	Name:    "LA ANTESALA BY FUSION",
	Address: "Avenida Hostos 105, Ponce, PR 00717",
	Phone:   "Tel. 787-428-2228",
}

type Client struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
}

type Event struct {
	Type       string `json:"type"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Duration   int    `json:"duration"`
	Room       string `json:"room"`
	GuestCount int    `json:"guestCount"`
	Tables     string `json:"tables,omitempty"`
}

// Row is one invoice line. Quantity is "-" and Included is set for free services.
type Row struct {
	Description string          `json:"description"`
	Details     []string        `json:"details,omitempty"`
	Quantity    string          `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
	Included    bool            `json:"included,omitempty"`
}

type Totals struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	FoodStateTax      decimal.Decimal `json:"foodStateTax"`
	FoodCityTax       decimal.Decimal `json:"foodCityTax"`
	AlcoholTax        decimal.Decimal `json:"alcoholTax"`
	TotalTaxes        decimal.Decimal `json:"totalTaxes"`
	TipPercentage     decimal.Decimal `json:"tipPercentage"`
	Tip               decimal.Decimal `json:"tip"`
	Total             decimal.Decimal `json:"total"`
	DepositPercentage decimal.Decimal `json:"depositPercentage"`
	Deposit           decimal.Decimal `json:"deposit"`
	DepositPaid       bool            `json:"depositPaid"`
	Balance           decimal.Decimal `json:"balance"`
}

// Invoice is a formatted view over a stored reservation. Every amount comes
// from the frozen pricing breakdown.
type Invoice struct {
	Number        string `json:"number"`
	FileName      string `json:"fileName"`
	ReservationID string `json:"reservationId"`
	Venue         Venue  `json:"venue"`
	Client        Client `json:"client"`
	Event         Event  `json:"event"`
	Rows          []Row  `json:"rows"`
	Totals        Totals `json:"totals"`
}
