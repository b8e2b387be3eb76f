package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antesala/internal/catalog"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func newTestEngine(mode RoomPricingMode) *Engine {
	policy := DefaultPolicy()
	policy.RoomPricing = mode
	return NewEngine(catalog.Default(), policy)
}

func TestCalculate_ReferenceScenario(t *testing.T) {
	engine := newTestEngine(RoomComplimentary)

	b := engine.Calculate(Request{
		GuestCount:         50,
		FoodType:           "individual-plates",
		FoodUnitPrice:      d("20"),
		Beverages:          SelectionMap{"medalla": Qty(10)},
		EventDurationHours: 4,
		TipPercentage:      d("10"),
		DepositPercentage:  d("20"),
	})

	assertMoney(t, "0", b.RoomCost, "roomCost")
	assertMoney(t, "1000.00", b.FoodCost, "foodCost")
	assertMoney(t, "720.00", b.DrinkCost, "drinkCost")
	assertMoney(t, "60.00", b.Taxes.FoodStateTax, "foodStateTax")
	assertMoney(t, "10.00", b.Taxes.FoodCityTax, "foodCityTax")
	assertMoney(t, "75.60", b.Taxes.AlcoholTax, "alcoholTax")
	assertMoney(t, "145.60", b.Taxes.Total, "totalTaxes")
	assertMoney(t, "1720.00", b.SubtotalBeforeTaxes, "subtotal")
	assertMoney(t, "172.00", b.Tip.Amount, "tip")
	assertMoney(t, "2037.60", b.TotalCost, "total")
	assertMoney(t, "407.52", b.DepositAmount, "deposit")
	assert.Equal(t, 50, b.GuestCount)
	assert.Equal(t, 4, b.EventDuration)
}

func TestCalculate_ZeroGuestsKeepsQuantityBeverages(t *testing.T) {
	engine := newTestEngine(RoomComplimentary)

	b := engine.Calculate(Request{
		GuestCount:         0,
		FoodType:           "individual-plates",
		FoodUnitPrice:      d("25"),
		Beverages:          SelectionMap{"soft-drinks": Qty(2), "water": Qty(1), "mimosa": PerGuestFlag()},
		EventDurationHours: 1,
	})

	assertMoney(t, "0", b.FoodCost, "foodCost")
	assertMoney(t, "90", b.DrinkCost, "drinkCost")
	assertMoney(t, "0", b.Taxes.AlcoholTax, "alcoholTax")
	assertMoney(t, "90", b.TotalCost, "total")
}

func TestCalculate_AlcoholTaxCoversWholeBeverageBill(t *testing.T) {
	engine := newTestEngine(RoomComplimentary)

	b := engine.Calculate(Request{
		GuestCount: 10,
		Beverages:  SelectionMap{"soft-drinks": Qty(2), "corona": Qty(1)},
	})

	// 2*35 + 72 = 142, taxed in full at 10.5%
	assertMoney(t, "142", b.DrinkCost, "drinkCost")
	assertMoney(t, "14.91", b.Taxes.AlcoholTax, "alcoholTax")
}

func TestCalculate_PerGuestItemsDoNotTriggerAlcoholTax(t *testing.T) {
	engine := newTestEngine(RoomComplimentary)

	b := engine.Calculate(Request{
		GuestCount: 40,
		Beverages:  SelectionMap{"mimosa": PerGuestFlag()},
		Entremeses: SelectionMap{"asopao": PerGuestFlag(), "ceviche": PerGuestFlag(), "bandeja-surtido": Qty(1)},
	})

	assertMoney(t, "158", b.DrinkCost, "drinkCost")
	assertMoney(t, "0", b.Taxes.AlcoholTax, "alcoholTax")
	// 3.00*40 + 3.95*40 + 100
	assertMoney(t, "378", b.EntremesesCost, "entremesesCost")
}

func TestCalculate_IgnoresUnknownAndMismatchedSelections(t *testing.T) {
	engine := newTestEngine(RoomComplimentary)

	b := engine.Calculate(Request{
		GuestCount: 10,
		Beverages: SelectionMap{
			"discontinued-rum": Qty(3),
			"medalla":          PerGuestFlag(),
			"mimosa":           Qty(4),
		},
	})

	assertMoney(t, "0", b.DrinkCost, "drinkCost")
	assert.Empty(t, b.LinesFor(LineBeverage))
}

func TestCalculate_RoomPolicy(t *testing.T) {
	req := Request{
		GuestCount:         30,
		FoodType:           catalog.NoFoodID,
		RoomType:           "grand-hall",
		RoomUnitPrice:      d("150"),
		EventDurationHours: 3,
	}

	complimentary := newTestEngine(RoomComplimentary).Calculate(req)
	assertMoney(t, "0", complimentary.RoomCost, "complimentary roomCost")

	billed := newTestEngine(RoomBilledWhenNoFood).Calculate(req)
	assertMoney(t, "450", billed.RoomCost, "billed roomCost")
	require.Len(t, billed.LinesFor(LineRoom), 1)
	assert.Equal(t, "Salon 1", billed.LinesFor(LineRoom)[0].Description)

	req.FoodType = "individual-plates"
	req.FoodUnitPrice = d("25")
	withFood := newTestEngine(RoomBilledWhenNoFood).Calculate(req)
	assertMoney(t, "0", withFood.RoomCost, "bundled roomCost")
}

func TestCalculate_AdditionalServices(t *testing.T) {
	engine := newTestEngine(RoomComplimentary)

	b := engine.Calculate(Request{
		GuestCount: 1,
		Services:   AdditionalServices{AudioVisual: true, Decorations: true, Waitstaff: true, Valet: true},
	})

	assertMoney(t, "300", b.AdditionalCost, "additionalCost")
	lines := b.LinesFor(LineService)
	require.Len(t, lines, 4)
	assert.Equal(t, "Manteles", lines[0].Description)
	assert.True(t, lines[0].Amount.IsZero())
}

func TestCalculate_TotalIdentityHolds(t *testing.T) {
	engine := newTestEngine(RoomBilledWhenNoFood)

	cases := []Request{
		{GuestCount: 1, FoodType: "desayuno-9.95", FoodUnitPrice: d("9.95"), TipPercentage: d("15"), DepositPercentage: d("0")},
		{GuestCount: 137, FoodType: "buffet-criollo", FoodUnitPrice: d("22.95"), Beverages: SelectionMap{"tito-handle": Qty(3), "mimosa": PerGuestFlag()}, TipPercentage: d("18"), DepositPercentage: d("100")},
		{GuestCount: 12, FoodType: catalog.NoFoodID, RoomType: "intimate-room", RoomUnitPrice: d("100"), EventDurationHours: 5, Services: AdditionalServices{Valet: true}, DepositPercentage: d("35")},
	}

	for _, req := range cases {
		b := engine.Calculate(req)
		sum := b.SubtotalBeforeTaxes.Add(b.Taxes.FoodStateTax).Add(b.Taxes.FoodCityTax).Add(b.Taxes.AlcoholTax).Add(b.Tip.Amount)
		assert.True(t, sum.Equal(b.TotalCost), "total identity for %+v", req)
		assert.True(t, b.TotalCost.Mul(req.DepositPercentage).Div(hundred).Equal(b.DepositAmount))
		assert.True(t, req.FoodUnitPrice.Mul(decimal.NewFromInt(int64(req.GuestCount))).Equal(b.FoodCost))

		var lineSum decimal.Decimal
		for _, l := range b.LineItems {
			lineSum = lineSum.Add(l.Amount)
		}
		assert.True(t, lineSum.Equal(b.SubtotalBeforeTaxes), "line items add up to the subtotal")
	}
}

func TestBreakdownJSONKeepsPersistedKeys(t *testing.T) {
	engine := newTestEngine(RoomComplimentary)
	b := engine.Calculate(Request{GuestCount: 2, FoodUnitPrice: d("10"), FoodType: "individual-plates"})

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, 20.0, raw["foodCost"])
	taxes := raw["taxes"].(map[string]any)
	assert.Contains(t, taxes, "foodStateReducedTax")
	assert.Contains(t, taxes, "alcoholStateTax")
	assert.Contains(t, taxes, "totalTaxes")
}

func TestSelectionMapJSON(t *testing.T) {
	var m SelectionMap
	require.NoError(t, json.Unmarshal([]byte(`{"medalla":3,"mimosa":true,"water":0,"ceviche":false}`), &m))

	assert.Equal(t, SelectionMap{"medalla": Qty(3), "mimosa": PerGuestFlag()}, m)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"medalla":3,"mimosa":true}`, string(data))
}

func TestSelectionJSON_RejectsFractionalAndOversizedQuantities(t *testing.T) {
	var s Selection
	require.NoError(t, json.Unmarshal([]byte(`3`), &s))
	assert.Equal(t, Qty(3), s)
	require.NoError(t, json.Unmarshal([]byte(`4.0`), &s))
	assert.Equal(t, Qty(4), s)

	for _, raw := range []string{`2.9`, `1e20`, `-1e20`, `"3"`} {
		assert.Error(t, json.Unmarshal([]byte(raw), &s), raw)
	}

	var m SelectionMap
	assert.Error(t, json.Unmarshal([]byte(`{"medalla":2.9}`), &m))
}

func TestParseRoomPricingMode(t *testing.T) {
	mode, err := ParseRoomPricingMode("billed_when_no_food")
	require.NoError(t, err)
	assert.Equal(t, RoomBilledWhenNoFood, mode)

	_, err = ParseRoomPricingMode("hourly")
	assert.Error(t, err)
}
