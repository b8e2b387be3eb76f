package reservations

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"antesala/internal/catalog"
	"antesala/internal/pricing"
	"antesala/internal/tables"
)

// FormValue is a raw form input. It accepts JSON strings and numbers alike.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = FormValue(n.String())
	return nil
}

func (v FormValue) String() string {
	return strings.TrimSpace(string(v))
}

// positiveInt parses a whole number greater than zero
func (v FormValue) positiveInt() (int, bool) {
	n, err := strconv.Atoi(v.String())
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (v FormValue) decimal() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Draft is an unvalidated reservation as typed into the form
type Draft struct {
	// ReplacesID marks a draft opened with BeginEdit; saving it swaps out that reservation
	ReplacesID string `json:"replacesId,omitempty"`

	ClientName     string    `json:"clientName"`
	ClientEmail    string    `json:"clientEmail"`
	ClientPhone    string    `json:"clientPhone"`
	CompanyName    string    `json:"companyName"`
	EventDate      string    `json:"eventDate"`
	EventTime      string    `json:"eventTime"`
	EventType      string    `json:"eventType"`
	OtherEventType string    `json:"otherEventType"`
	EventDuration  FormValue `json:"eventDuration"`
	RoomType       string    `json:"roomType"`
	FoodType       string    `json:"foodType"`

	// GuestCount is the slider value, GuestCountManual the direct entry
	GuestCount       FormValue `json:"guestCount"`
	GuestCountManual FormValue `json:"guestCountManual"`

	// TableType is a selector such as "round-8"
	TableType string `json:"tableType"`

	Buffet             Buffet                     `json:"buffet"`
	Beverages          pricing.SelectionMap       `json:"beverages"`
	Entremeses         pricing.SelectionMap       `json:"entremeses"`
	AdditionalServices pricing.AdditionalServices `json:"additionalServices"`

	TipPercentage     FormValue `json:"tipPercentage"`
	DepositPercentage FormValue `json:"depositPercentage"`
}

// ResolveGuestCount prefers the direct entry and falls back to the slider.
// Zero means neither source holds a positive whole number.
func (d Draft) ResolveGuestCount() int {
	if n, ok := d.GuestCountManual.positiveInt(); ok {
		return n
	}
	if n, ok := d.GuestCount.positiveInt(); ok {
		return n
	}
	return 0
}

// ResolveDuration returns the event length in hours, one when unset
func (d Draft) ResolveDuration() int {
	if n, ok := d.EventDuration.positiveInt(); ok {
		return n
	}
	return 1
}

// ResolveTip returns the tip percentage, zero when unset
func (d Draft) ResolveTip() decimal.Decimal {
	if v, ok := d.TipPercentage.decimal(); ok {
		return v
	}
	return decimal.Zero
}

// ResolveDeposit returns the deposit percentage or the given default
func (d Draft) ResolveDeposit(fallback decimal.Decimal) decimal.Decimal {
	if v, ok := d.DepositPercentage.decimal(); ok {
		return v
	}
	return fallback
}

// ResolvedEventType is the stored event type. "other" is replaced by its description.
func (d Draft) ResolvedEventType() string {
	if strings.TrimSpace(d.EventType) == catalog.OtherEventType {
		return strings.TrimSpace(d.OtherEventType)
	}
	return strings.TrimSpace(d.EventType)
}

// PricingRequest turns the draft into an engine request using catalog prices
func (d Draft) PricingRequest(cat *catalog.Catalog, policy pricing.Policy) pricing.Request {
	req := pricing.Request{
		GuestCount:         d.ResolveGuestCount(),
		FoodType:           d.FoodType,
		RoomType:           d.RoomType,
		Beverages:          d.Beverages.Normalized(),
		Entremeses:         d.Entremeses.Normalized(),
		Services:           d.AdditionalServices,
		EventDurationHours: d.ResolveDuration(),
		TipPercentage:      d.ResolveTip(),
		DepositPercentage:  d.ResolveDeposit(policy.DefaultDepositPercentage),
	}
	if food, ok := cat.FindFood(d.FoodType); ok {
		req.FoodUnitPrice = food.UnitPrice
	}
	if room, ok := cat.FindRoom(d.RoomType); ok {
		req.RoomUnitPrice = room.HourlyRate
	}
	return req
}

// DraftFromReservation reconstitutes the form values of a stored reservation
func DraftFromReservation(r Reservation) Draft {
	d := Draft{
		ClientName:         r.ClientName,
		ClientEmail:        r.ClientEmail,
		ClientPhone:        r.ClientPhone,
		CompanyName:        r.CompanyName,
		EventDate:          r.EventDate,
		EventTime:          r.EventTime,
		EventType:          r.EventType,
		EventDuration:      FormValue(strconv.Itoa(r.EventDuration)),
		RoomType:           r.RoomType,
		FoodType:           r.FoodType,
		GuestCount:         FormValue(strconv.Itoa(r.GuestCount)),
		Beverages:          r.Beverages.Normalized(),
		Entremeses:         r.Entremeses.Normalized(),
		AdditionalServices: r.AdditionalServices,
		TipPercentage:      FormValue(r.TipPercentage.String()),
		DepositPercentage:  FormValue(r.DepositPercentage.String()),
	}
	if r.EventType != "" && !catalog.IsStandardEventType(r.EventType) {
		d.EventType = catalog.OtherEventType
		d.OtherEventType = r.EventType
	}
	if r.Buffet != nil {
		d.Buffet = *r.Buffet
	}
	if r.TableConfiguration != nil {
		d.TableType = r.TableConfiguration.Selector()
	}
	return d
}

// buildReservation freezes a validated draft into a reservation
func buildReservation(d Draft, breakdown pricing.Breakdown, policy pricing.Policy) Reservation {
	guests := d.ResolveGuestCount()
	r := Reservation{
		ClientName:         strings.TrimSpace(d.ClientName),
		ClientEmail:        strings.TrimSpace(d.ClientEmail),
		ClientPhone:        strings.TrimSpace(d.ClientPhone),
		CompanyName:        strings.TrimSpace(d.CompanyName),
		EventDate:          strings.TrimSpace(d.EventDate),
		EventTime:          strings.TrimSpace(d.EventTime),
		EventType:          d.ResolvedEventType(),
		EventDuration:      d.ResolveDuration(),
		RoomType:           d.RoomType,
		FoodType:           d.FoodType,
		Beverages:          d.Beverages.Normalized(),
		Entremeses:         d.Entremeses.Normalized(),
		GuestCount:         guests,
		TableConfiguration: tables.FromSelector(d.TableType, guests),
		AdditionalServices: d.AdditionalServices,
		TipPercentage:      d.ResolveTip(),
		DepositPercentage:  d.ResolveDeposit(policy.DefaultDepositPercentage),
		DepositPaid:        false,
		Pricing:            breakdown,
	}
	if catalog.IsBuffet(d.FoodType) {
		b := d.Buffet
		r.Buffet = &b
	}
	return r
}
