package catalog

import (
	"github.com/shopspring/decimal"
)

// Kind selects one of the two selectable item tables
type Kind string

const (
	KindBeverage   Kind = "beverage"
	KindEntremeses Kind = "entremeses"
)

// IsValid reports whether k names a known item table
func (k Kind) IsValid() bool {
	return k == KindBeverage || k == KindEntremeses
}

func (k Kind) String() string {
	return string(k)
}

// Item is one selectable beverage or appetizer.
// PerGuest items are selected with a flag and billed at UnitPrice times the guest count.
type Item struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"displayName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	IsAlcoholic bool            `json:"isAlcoholic"`
	PerGuest    bool            `json:"perGuest"`
}

func item(id, name, price string, alcoholic bool) Item {
	return Item{
		ID:          id,
		DisplayName: name,
		UnitPrice:   decimal.RequireFromString(price),
		IsAlcoholic: alcoholic,
	}
}

func perGuestItem(id, name, rate string, alcoholic bool) Item {
	it := item(id, name, rate, alcoholic)
	it.PerGuest = true
	return it
}

func defaultBeverages() []Item {
	return []Item{
		item("soft-drinks", "Caja de Refrescos (24)", "35", false),
		item("water", "Caja de Agua (24)", "20", false),
		item("michelob", "Michelob", "72", true),
		item("medalla", "Medalla", "72", true),
		item("heineken", "Heineken", "72", true),
		item("coors", "Coors Light", "72", true),
		item("corona", "Corona", "72", true),
		item("modelo", "Modelo", "72", true),
		item("black-label-1l", "1 Litro Black Label", "65", true),
		item("tito-1l", "1 Litro Tito Vodka", "45", true),
		item("dewars-12-handle", "Gancho Dewars 12", "200", true),
		item("dewars-handle", "Gancho Dewars Reg.", "150", true),
		item("donq-cristal-handle", "Gancho Don Q Cristal", "75", true),
		item("donq-limon-handle", "Gancho Don Q Limón", "75", true),
		item("donq-passion-handle", "Gancho Don Q Passion", "75", true),
		item("donq-coco-handle", "Gancho Don Q Coco", "75", true),
		item("donq-naranja-handle", "Gancho Don Q Naranja", "75", true),
		item("donq-oro-handle", "Gancho Don Q Oro", "75", true),
		item("tito-handle", "Gancho Tito Vodka", "150", true),
		item("sangria", "Jarra de Sangria", "25", true),
		item("red-wine-25", "Botella de Vino Tinto ($25)", "25", true),
		item("red-wine-30", "Botella de Vino Tinto ($30)", "30", true),
		item("red-wine-35-1", "Botella de Vino Tinto ($35)", "35", true),
		item("red-wine-35-2", "Botella de Vino Tinto ($35)", "35", true),
		item("red-wine-40", "Botella de Vino Tinto ($40)", "40", true),
		item("white-wine-25", "Botella de Vino Blanco ($25)", "25", true),
		item("white-wine-30", "Botella de Vino Blanco ($30)", "30", true),
		item("white-wine-35-1", "Botella de Vino Blanco ($35)", "35", true),
		item("white-wine-35-2", "Botella de Vino Blanco ($35)", "35", true),
		item("white-wine-40", "Botella de Vino Blanco ($40)", "40", true),
		item("descorche", "Descorche", "0", false),
		perGuestItem("mimosa", "Mimosa", "3.95", true),
	}
}

func defaultEntremeses() []Item {
	return []Item{
		item("bandeja-surtido", "Bandeja de Surtido", "100", false),
		item("media-bandeja", "Media Bandeja de Surtidos", "50", false),
		item("bandeja-cortes-frios", "Bandeja Cortes Frios", "150", false),
		item("platos-entremeses", "Platos de Entremeses", "20", false),
		perGuestItem("asopao", "Asopao", "3.00", false),
		perGuestItem("ceviche", "Ceviche", "3.95", false),
	}
}
