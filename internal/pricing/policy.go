package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"antesala/internal/catalog"
)

// RoomPricingMode decides whether the room itself is ever billed
type RoomPricingMode string

const (
	// RoomComplimentary never charges for the space
	RoomComplimentary RoomPricingMode = "complimentary"
	// RoomBilledWhenNoFood bills the room by the hour when no food is served
	RoomBilledWhenNoFood RoomPricingMode = "billed_when_no_food"
)

func (m RoomPricingMode) IsValid() bool {
	return m == RoomComplimentary || m == RoomBilledWhenNoFood
}

func (m RoomPricingMode) String() string {
	return string(m)
}

// ParseRoomPricingMode parses a configured room pricing mode
func ParseRoomPricingMode(s string) (RoomPricingMode, error) {
	m := RoomPricingMode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown room pricing mode %q", s)
	}
	return m, nil
}

// TaxRates are percentages, so 6 means 6%
type TaxRates struct {
	FoodState decimal.Decimal `json:"foodState"`
	FoodCity  decimal.Decimal `json:"foodCity"`
	Alcohol   decimal.Decimal `json:"alcohol"`
}

// ServiceFees are the flat fees of the additional services
type ServiceFees struct {
	AudioVisual decimal.Decimal `json:"audioVisual"`
	Decorations decimal.Decimal `json:"decorations"`
	Waitstaff   decimal.Decimal `json:"waitstaff"`
	Valet       decimal.Decimal `json:"valet"`
}

// Fee returns the fee of a service key, zero when unknown
func (f ServiceFees) Fee(key string) decimal.Decimal {
	switch key {
	case catalog.ServiceAudioVisual:
		return f.AudioVisual
	case catalog.ServiceDecorations:
		return f.Decorations
	case catalog.ServiceWaitstaff:
		return f.Waitstaff
	case catalog.ServiceValet:
		return f.Valet
	default:
		return decimal.Zero
	}
}

// Policy is the venue's pricing configuration
type Policy struct {
	RoomPricing              RoomPricingMode
	Taxes                    TaxRates
	Fees                     ServiceFees
	DefaultDepositPercentage decimal.Decimal
}

// DefaultPolicy returns the venue's standard configuration
func DefaultPolicy() Policy {
	return Policy{
		RoomPricing: RoomComplimentary,
		Taxes: TaxRates{
			FoodState: decimal.NewFromInt(6),
			FoodCity:  decimal.NewFromInt(1),
			Alcohol:   decimal.RequireFromString("10.5"),
		},
		Fees: ServiceFees{
			AudioVisual: decimal.Zero,
			Decorations: decimal.NewFromInt(150),
			Waitstaff:   decimal.NewFromInt(100),
			Valet:       decimal.NewFromInt(50),
		},
		DefaultDepositPercentage: decimal.NewFromInt(20),
	}
}
