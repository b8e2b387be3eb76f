package pricing

import (
	"github.com/shopspring/decimal"

	"antesala/internal/catalog"
)

var hundred = decimal.NewFromInt(100)

// Engine prices reservation requests. It is pure and safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
	policy  Policy
}

func NewEngine(cat *catalog.Catalog, policy Policy) *Engine {
	return &Engine{catalog: cat, policy: policy}
}

// Policy returns the configuration the engine prices with
func (e *Engine) Policy() Policy {
	return e.policy
}

// Catalog returns the catalog the engine prices from
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Calculate itemises a request. It never fails: unknown catalog ids cost nothing.
func (e *Engine) Calculate(req Request) Breakdown {
	guests := req.GuestCount
	if guests < 0 {
		guests = 0
	}
	hours := req.EventDurationHours
	if hours < 1 {
		hours = 1
	}
	guestsDec := decimal.NewFromInt(int64(guests))

	var lines []LineItem

	roomCost := decimal.Zero
	if e.policy.RoomPricing == RoomBilledWhenNoFood && req.FoodType == catalog.NoFoodID {
		roomCost = req.RoomUnitPrice.Mul(decimal.NewFromInt(int64(hours)))
		if roomCost.IsPositive() {
			lines = append(lines, LineItem{
				Category:    LineRoom,
				ItemID:      req.RoomType,
				Description: e.catalog.RoomDisplayName(req.RoomType),
				Quantity:    hours,
				UnitPrice:   req.RoomUnitPrice,
				Amount:      roomCost,
			})
		}
	}

	foodCost := req.FoodUnitPrice.Mul(guestsDec)
	if foodCost.IsPositive() {
		lines = append(lines, LineItem{
			Category:    LineFood,
			ItemID:      req.FoodType,
			Description: e.catalog.FoodDisplayName(req.FoodType),
			Quantity:    guests,
			PerGuest:    true,
			UnitPrice:   req.FoodUnitPrice,
			Amount:      foodCost,
		})
	}

	drinkCost, alcoholicQty, drinkLines := e.accumulate(catalog.KindBeverage, LineBeverage, req.Beverages, guests)
	lines = append(lines, drinkLines...)

	entremesesCost, _, entremesesLines := e.accumulate(catalog.KindEntremeses, LineEntremeses, req.Entremeses, guests)
	lines = append(lines, entremesesLines...)

	additionalCost := decimal.Zero
	for _, key := range req.Services.Enabled() {
		fee := e.policy.Fees.Fee(key)
		additionalCost = additionalCost.Add(fee)
		lines = append(lines, LineItem{
			Category:    LineService,
			ItemID:      key,
			Description: catalog.ServiceDisplayName(key),
			Quantity:    1,
			UnitPrice:   fee,
			Amount:      fee,
		})
	}

	foodStateTax := percentOf(foodCost, e.policy.Taxes.FoodState)
	foodCityTax := percentOf(foodCost, e.policy.Taxes.FoodCity)
	// The whole beverage bill is taxed once any alcoholic line is present
	alcoholTax := decimal.Zero
	if alcoholicQty > 0 {
		alcoholTax = percentOf(drinkCost, e.policy.Taxes.Alcohol)
	}
	totalTaxes := foodStateTax.Add(foodCityTax).Add(alcoholTax)

	subtotal := roomCost.Add(foodCost).Add(drinkCost).Add(entremesesCost).Add(additionalCost)
	// Tip is computed on the pre-tax subtotal
	tipAmount := percentOf(subtotal, req.TipPercentage)
	total := subtotal.Add(totalTaxes).Add(tipAmount)
	deposit := percentOf(total, req.DepositPercentage)

	return Breakdown{
		RoomCost:       roomCost,
		FoodCost:       foodCost,
		DrinkCost:      drinkCost,
		EntremesesCost: entremesesCost,
		AdditionalCost: additionalCost,
		Taxes: Taxes{
			FoodStateTax: foodStateTax,
			FoodCityTax:  foodCityTax,
			AlcoholTax:   alcoholTax,
			Total:        totalTaxes,
		},
		Tip: Tip{
			Percentage: req.TipPercentage,
			Amount:     tipAmount,
		},
		SubtotalBeforeTaxes: subtotal,
		TotalCost:           total,
		DepositAmount:       deposit,
		DepositPercentage:   req.DepositPercentage,
		GuestCount:          guests,
		EventDuration:       hours,
		LineItems:           lines,
	}
}

// accumulate prices one selection map in catalog order. Per-guest flags only
// apply to per-guest items and quantities only to unit items; anything else is ignored.
// Only unit quantities count toward the alcoholic quantity.
func (e *Engine) accumulate(kind catalog.Kind, category LineCategory, selections SelectionMap, guests int) (decimal.Decimal, int, []LineItem) {
	cost := decimal.Zero
	alcoholicQty := 0
	var lines []LineItem

	if len(selections) == 0 {
		return cost, 0, nil
	}

	for _, it := range e.catalog.Items(kind) {
		sel, ok := selections[it.ID]
		if !ok {
			continue
		}

		switch {
		case it.PerGuest && sel.PerGuest:
			amount := it.UnitPrice.Mul(decimal.NewFromInt(int64(guests)))
			cost = cost.Add(amount)
			lines = append(lines, LineItem{
				Category:    category,
				ItemID:      it.ID,
				Description: it.DisplayName,
				Quantity:    guests,
				PerGuest:    true,
				UnitPrice:   it.UnitPrice,
				Amount:      amount,
			})
		case !it.PerGuest && !sel.PerGuest && sel.Quantity > 0:
			amount := it.UnitPrice.Mul(decimal.NewFromInt(int64(sel.Quantity)))
			cost = cost.Add(amount)
			if it.IsAlcoholic {
				alcoholicQty += sel.Quantity
			}
			lines = append(lines, LineItem{
				Category:    category,
				ItemID:      it.ID,
				Description: it.DisplayName,
				Quantity:    sel.Quantity,
				UnitPrice:   it.UnitPrice,
				Amount:      amount,
			})
		}
	}

	return cost, alcoholicQty, lines
}

func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}
