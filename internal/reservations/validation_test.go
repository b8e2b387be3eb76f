package reservations

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"antesala/internal/catalog"
	"antesala/internal/pricing"
)

func validDraft() Draft {
	d := Draft{
		ClientName:    "María Rivera",
		ClientPhone:   "787-555-0101",
		EventDate:     "2026-11-20",
		EventTime:     "18:30",
		EventType:     "wedding",
		EventDuration: "4",
		RoomType:      "grand-hall",
		FoodType:      "individual-plates",
		GuestCount:    "50",
		TableType:     "round-8",
		TipPercentage: "10",
		Beverages:     pricing.SelectionMap{},
		Entremeses:    pricing.SelectionMap{},
	}
	d.Beverages.Set("medalla", pricing.Qty(2))
	return d
}

func TestValidate_FullNonBuffetDraftPasses(t *testing.T) {
	v := NewValidator(catalog.Default())

	result := v.Validate(validDraft())

	assert.True(t, result.OK)
	assert.Empty(t, result.MissingFieldIDs)
	assert.Empty(t, result.InvalidFieldIDs)
}

func TestValidate_EmailAndCompanyAreOptional(t *testing.T) {
	v := NewValidator(catalog.Default())
	d := validDraft()
	d.ClientEmail = ""
	d.CompanyName = ""

	assert.True(t, v.Validate(d).OK)
}

func TestValidate_ReportsEveryMissingRequiredField(t *testing.T) {
	v := NewValidator(catalog.Default())
	required := map[string]func(*Draft){
		"clientName":    func(d *Draft) { d.ClientName = "" },
		"clientPhone":   func(d *Draft) { d.ClientPhone = "  " },
		"eventDate":     func(d *Draft) { d.EventDate = "" },
		"eventTime":     func(d *Draft) { d.EventTime = "" },
		"eventType":     func(d *Draft) { d.EventType = "" },
		"eventDuration": func(d *Draft) { d.EventDuration = "" },
		"roomType":      func(d *Draft) { d.RoomType = "" },
		"foodType":      func(d *Draft) { d.FoodType = "" },
		"guestCount":    func(d *Draft) { d.GuestCount = "" },
		"tableType":     func(d *Draft) { d.TableType = "" },
	}

	for field, clear := range required {
		t.Run(field, func(t *testing.T) {
			d := validDraft()
			clear(&d)
			result := v.Validate(d)
			assert.False(t, result.OK)
			assert.Equal(t, []string{field}, result.MissingFieldIDs)
		})
	}
}

func TestValidate_ReportsAllMissingFieldsInSchemaOrder(t *testing.T) {
	v := NewValidator(catalog.Default())

	result := v.Validate(Draft{})

	assert.False(t, result.OK)
	assert.Equal(t, []string{
		"clientName", "clientPhone", "eventDate", "eventTime", "eventType",
		"eventDuration", "roomType", "foodType", "guestCount", "tableType",
	}, result.MissingFieldIDs)
}

func TestValidate_BuffetRequiresAllFivePicks(t *testing.T) {
	v := NewValidator(catalog.Default())
	d := validDraft()
	d.FoodType = "buffet-criollo"

	result := v.Validate(d)
	assert.Equal(t, []string{"buffetRice", "buffetProtein1", "buffetProtein2", "buffetSide", "buffetSalad"}, result.MissingFieldIDs)

	d.Buffet = Buffet{
		Rice:     catalog.BuffetOptions(catalog.BuffetRice)[0].ID,
		Protein1: catalog.BuffetOptions(catalog.BuffetProtein)[0].ID,
		Protein2: catalog.BuffetOptions(catalog.BuffetProtein)[1].ID,
		Side:     catalog.BuffetOptions(catalog.BuffetSide)[0].ID,
		Salad:    catalog.BuffetOptions(catalog.BuffetSalad)[0].ID,
	}
	assert.True(t, v.Validate(d).OK)

	d.Buffet.Rice = "not-a-rice"
	assert.Equal(t, []string{"buffetRice"}, v.Validate(d).InvalidFieldIDs)
}

func TestValidate_BuffetPicksIgnoredForOtherFood(t *testing.T) {
	v := NewValidator(catalog.Default())
	d := validDraft()
	d.Buffet.Rice = "leftover"

	assert.True(t, v.Validate(d).OK)
}

func TestValidate_OtherEventTypeNeedsDescription(t *testing.T) {
	v := NewValidator(catalog.Default())
	d := validDraft()
	d.EventType = catalog.OtherEventType

	assert.Equal(t, []string{"otherEventType"}, v.Validate(d).MissingFieldIDs)

	d.OtherEventType = "Reunión familiar"
	assert.True(t, v.Validate(d).OK)
}

func TestValidate_GuestCountFromEitherSource(t *testing.T) {
	v := NewValidator(catalog.Default())

	d := validDraft()
	d.GuestCount = ""
	d.GuestCountManual = "35"
	assert.True(t, v.Validate(d).OK)
	assert.Equal(t, 35, d.ResolveGuestCount())

	d.GuestCount = "0"
	d.GuestCountManual = "abc"
	assert.Equal(t, []string{"guestCount"}, v.Validate(d).MissingFieldIDs)

	d.GuestCount = "20"
	d.GuestCountManual = "40"
	assert.Equal(t, 40, d.ResolveGuestCount())
}

func TestValidate_MalformedValuesAreInvalid(t *testing.T) {
	v := NewValidator(catalog.Default())
	d := validDraft()
	d.ClientEmail = "not-an-email"
	d.EventDate = "20/11/2026"
	d.EventTime = "6pm"
	d.EventDuration = "0"
	d.RoomType = "rooftop"
	d.FoodType = "sushi"
	d.TipPercentage = "-5"
	d.DepositPercentage = "120"

	result := v.Validate(d)

	assert.False(t, result.OK)
	assert.Empty(t, result.MissingFieldIDs)
	assert.Equal(t, []string{
		"clientEmail", "eventDate", "eventTime", "eventDuration",
		"roomType", "foodType", "tipPercentage", "depositPercentage",
	}, result.InvalidFieldIDs)
}

func TestValidator_Labels(t *testing.T) {
	v := NewValidator(catalog.Default())

	assert.Equal(t, "Nombre del Cliente", v.Label("clientName"))
	assert.Equal(t, "unknown", v.Label("unknown"))
	assert.Len(t, v.Schema(), 20)
}
