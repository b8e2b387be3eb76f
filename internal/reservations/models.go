package reservations

import (
	"time"

	"github.com/shopspring/decimal"

	"antesala/internal/pricing"
	"antesala/internal/tables"
)

// DateLayout is the calendar date format of eventDate
const DateLayout = "2006-01-02"

// TimeLayout is the wall clock format of eventTime
const TimeLayout = "15:04"

// Buffet is the structured food choice of buffet events
type Buffet struct {
	Rice         string `json:"rice"`
	Protein1     string `json:"protein1"`
	Protein2     string `json:"protein2"`
	Side         string `json:"side"`
	Salad        string `json:"salad"`
	Panecillos   bool   `json:"panecillos"`
	AguaRefresco bool   `json:"aguaRefresco"`
}

// Reservation is a committed booking. Only DepositPaid changes after creation;
// Pricing is the breakdown frozen at save time.
type Reservation struct {
	ID                 string                     `json:"id"`
	ClientName         string                     `json:"clientName"`
	ClientEmail        string                     `json:"clientEmail"`
	ClientPhone        string                     `json:"clientPhone"`
	EventDate          string                     `json:"eventDate"`
	EventTime          string                     `json:"eventTime"`
	EventType          string                     `json:"eventType"`
	EventDuration      int                        `json:"eventDuration"`
	CompanyName        string                     `json:"companyName"`
	RoomType           string                     `json:"roomType"`
	FoodType           string                     `json:"foodType"`
	Buffet             *Buffet                    `json:"buffet"`
	Beverages          pricing.SelectionMap       `json:"beverages"`
	Entremeses         pricing.SelectionMap       `json:"entremeses"`
	GuestCount         int                        `json:"guestCount"`
	TableConfiguration *tables.Configuration      `json:"tableConfiguration"`
	AdditionalServices pricing.AdditionalServices `json:"additionalServices"`
	TipPercentage      decimal.Decimal            `json:"tipPercentage"`
	DepositPercentage  decimal.Decimal            `json:"depositPercentage"`
	DepositPaid        bool                       `json:"depositPaid"`
	Pricing            pricing.Breakdown          `json:"pricing"`
	CreatedAt          time.Time                  `json:"createdAt"`
}

// DocumentID keys the reservation in the document store
func (r Reservation) DocumentID() string {
	return r.ID
}

// DocumentSortKey orders stored reservations by event date
func (r Reservation) DocumentSortKey() string {
	return r.EventDate
}

// Balance is what is still owed. It is derived on read and never stored.
func (r Reservation) Balance() decimal.Decimal {
	if r.DepositPaid {
		return r.Pricing.TotalCost.Sub(r.Pricing.DepositAmount)
	}
	return r.Pricing.TotalCost
}

// DepositStatus reports the deposit state of the reservation
func (r Reservation) DepositStatus() DepositStatus {
	if r.DepositPaid {
		return DepositPaid
	}
	return DepositUnpaid
}

func (r Reservation) clone() Reservation {
	out := r
	if r.Buffet != nil {
		b := *r.Buffet
		out.Buffet = &b
	}
	if r.TableConfiguration != nil {
		tc := *r.TableConfiguration
		out.TableConfiguration = &tc
	}
	out.Beverages = r.Beverages.Normalized()
	out.Entremeses = r.Entremeses.Normalized()
	out.Pricing.LineItems = append([]pricing.LineItem(nil), r.Pricing.LineItems...)
	return out
}

func cloneAll(list []Reservation) []Reservation {
	out := make([]Reservation, len(list))
	for i, r := range list {
		out[i] = r.clone()
	}
	return out
}
