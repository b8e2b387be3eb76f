package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NoFoodID is the food type that means no food service at all
const NoFoodID = "no-food"

// OtherEventType is the event type that requires a free-text description
const OtherEventType = "other"

// FoodType is a food service option billed per guest
type FoodType struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"displayName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// IsBuffet reports whether the food type needs a buffet selection
func (f FoodType) IsBuffet() bool {
	return IsBuffet(f.ID)
}

// IsBuffet reports whether a food type id is one of the buffet variants
func IsBuffet(foodTypeID string) bool {
	return strings.HasPrefix(foodTypeID, "buffet")
}

// Room is a rentable space. HourlyRate is only billed under the
// billed-when-no-food room policy.
type Room struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"displayName"`
	HourlyRate  decimal.Decimal `json:"hourlyRate"`
}

// Option is a plain id and label pair for fixed menus
type Option struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// BuffetCategory names one of the buffet pick lists
type BuffetCategory string

const (
	BuffetRice    BuffetCategory = "rice"
	BuffetProtein BuffetCategory = "protein"
	BuffetSide    BuffetCategory = "side"
	BuffetSalad   BuffetCategory = "salad"
)

// Buffet extras display names
const (
	BuffetPanecillosName   = "Panecillos"
	BuffetAguaRefrescoName = "Agua y Refresco"
)

// Service keys, in display order
const (
	ServiceAudioVisual = "audioVisual"
	ServiceDecorations = "decorations"
	ServiceWaitstaff   = "waitstaff"
	ServiceValet       = "valet"
)

var serviceOptions = []Option{
	{ServiceAudioVisual, "Manteles"},
	{ServiceDecorations, "Basic Decorations"},
	{ServiceWaitstaff, "Additional Waitstaff"},
	{ServiceValet, "Valet Parking"},
}

var eventTypeOptions = []Option{
	{"wedding", "Boda"},
	{"birthdays", "Cumpleaños"},
	{"pharmaceutical", "Farmacéutica"},
	{"baptism", "Bautizo"},
	{"graduation", "Graduación"},
	{"fiesta-navidad", "Fiesta de Navidad"},
	{OtherEventType, "Otro"},
}

var tableShapeOptions = []Option{
	{"round", "Mesa Redonda"},
	{"rectangular", "Mesa Rectangular"},
}

var buffetMenu = map[BuffetCategory][]Option{
	BuffetRice: {
		{"cebolla", "Arroz Cebolla"},
		{"cilantro", "Arroz Cilantro"},
		{"mamposteado", "Arroz Mamposteado"},
		{"consomme", "Arroz Consommé"},
		{"griego", "Arroz Griego"},
		{"gandules", "Arroz con Gandules"},
	},
	BuffetProtein: {
		{"pechuga-cilantro", "Pechuga salsa Cilantro"},
		{"pechuga-tres-quesos", "Pechuga tres quesos"},
		{"pechuga-ajillo", "Pechuga Ajillo"},
		{"pavo-cranberry", "Filete Pavo Frito salsa cranberry"},
		{"medallones-guayaba", "Medallones salsa Guayaba"},
		{"pernil-asado", "Pernil Asado"},
		{"pescado-ajillo", "Filete de Pescado Ajillo"},
		{"churrasco-setas", "Churrasco salsa setas"},
	},
	BuffetSide: {
		{"papas-leonesa", "Papas Leonesa"},
		{"papas-salteadas", "Papas salteadas"},
		{"ensalada-papa", "Ensalada Papa"},
		{"ensalada-coditos", "Ensalada de coditos"},
	},
	BuffetSalad: {
		{"caesar", "Ensalada César"},
		{"verde", "Ensalada Verde"},
		{"papa", "Ensalada de Papa"},
		{"coditos", "Ensalada de Coditos"},
	},
}

func defaultFoodTypes() []FoodType {
	food := func(id, name, price string) FoodType {
		return FoodType{ID: id, DisplayName: name, UnitPrice: decimal.RequireFromString(price)}
	}
	return []FoodType{
		food("individual-plates", "Platos Individuales", "25.00"),
		food("cocktail-reception", "Recepción de Cóctel", "18.00"),
		food("desayuno-9.95", "Desayuno $9.95", "9.95"),
		food("desayuno-10.95", "Desayuno $10.95", "10.95"),
		food("buffet-criollo", "Buffet", "22.95"),
		food("buffet-premium", "Buffet Premium", "27.95"),
		food(NoFoodID, "Sin Servicio de Comida", "0"),
	}
}

func defaultRooms() []Room {
	room := func(id, name, rate string) Room {
		return Room{ID: id, DisplayName: name, HourlyRate: decimal.RequireFromString(rate)}
	}
	return []Room{
		room("grand-hall", "Salon 1", "150"),
		room("intimate-room", "Salon 2", "100"),
		room("outdoor-terrace", "Salon 3", "125"),
	}
}

// BuffetCategories lists the buffet pick lists in form order
func BuffetCategories() []BuffetCategory {
	return []BuffetCategory{BuffetRice, BuffetProtein, BuffetSide, BuffetSalad}
}

// BuffetOptions returns the choices for one buffet category
func BuffetOptions(category BuffetCategory) []Option {
	return append([]Option(nil), buffetMenu[category]...)
}

// BuffetItemName returns the display name of a buffet pick, or the id itself when unknown
func BuffetItemName(category BuffetCategory, id string) string {
	return lookupName(buffetMenu[category], id)
}

// IsBuffetOption reports whether id is a valid pick for category
func IsBuffetOption(category BuffetCategory, id string) bool {
	for _, opt := range buffetMenu[category] {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// Services lists the additional services in display order
func Services() []Option {
	return append([]Option(nil), serviceOptions...)
}

// ServiceDisplayName returns the label of a service key
func ServiceDisplayName(key string) string {
	return lookupName(serviceOptions, key)
}

// EventTypes lists the selectable event types, "other" last
func EventTypes() []Option {
	return append([]Option(nil), eventTypeOptions...)
}

// IsStandardEventType reports whether eventType is a fixed option other than "other"
func IsStandardEventType(eventType string) bool {
	if eventType == OtherEventType {
		return false
	}
	for _, opt := range eventTypeOptions {
		if opt.ID == eventType {
			return true
		}
	}
	return false
}

// EventTypeDisplayName returns the label for an event type. Free-text types are returned as is.
func EventTypeDisplayName(eventType string) string {
	return lookupName(eventTypeOptions, eventType)
}

// TableShapes lists the table shapes
func TableShapes() []Option {
	return append([]Option(nil), tableShapeOptions...)
}

// TableShapeDisplayName returns the label of a table shape
func TableShapeDisplayName(shape string) string {
	return lookupName(tableShapeOptions, shape)
}

func lookupName(options []Option, id string) string {
	for _, opt := range options {
		if opt.ID == id {
			return opt.DisplayName
		}
	}
	return id
}
