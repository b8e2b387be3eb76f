package catalog

import (
	"github.com/shopspring/decimal"
)

// Catalog holds the reference data used for pricing. It is immutable after construction.
type Catalog struct {
	items map[Kind][]Item
	index map[Kind]map[string]Item
	foods []FoodType
	rooms []Room
}

// New builds a catalog from explicit tables
func New(beverages, entremeses []Item, foods []FoodType, rooms []Room) *Catalog {
	c := &Catalog{
		items: map[Kind][]Item{
			KindBeverage:   append([]Item(nil), beverages...),
			KindEntremeses: append([]Item(nil), entremeses...),
		},
		index: make(map[Kind]map[string]Item, 2),
		foods: append([]FoodType(nil), foods...),
		rooms: append([]Room(nil), rooms...),
	}
	for kind, items := range c.items {
		byID := make(map[string]Item, len(items))
		for _, it := range items {
			byID[it.ID] = it
		}
		c.index[kind] = byID
	}
	return c
}

// Default returns the venue's standard catalog
func Default() *Catalog {
	return New(defaultBeverages(), defaultEntremeses(), defaultFoodTypes(), defaultRooms())
}

// Items returns the items of one kind in their fixed order
func (c *Catalog) Items(kind Kind) []Item {
	return append([]Item(nil), c.items[kind]...)
}

// Find looks up an item by id
func (c *Catalog) Find(kind Kind, id string) (Item, bool) {
	it, ok := c.index[kind][id]
	return it, ok
}

// FoodTypes returns the food service options
func (c *Catalog) FoodTypes() []FoodType {
	return append([]FoodType(nil), c.foods...)
}

// FindFood looks up a food type by id
func (c *Catalog) FindFood(id string) (FoodType, bool) {
	for _, f := range c.foods {
		if f.ID == id {
			return f, true
		}
	}
	return FoodType{}, false
}

// FoodDisplayName returns the label used on invoices. All buffet variants read "Buffet".
func (c *Catalog) FoodDisplayName(id string) string {
	if IsBuffet(id) {
		return "Buffet"
	}
	if f, ok := c.FindFood(id); ok {
		return f.DisplayName
	}
	return id
}

// Rooms returns the rentable rooms
func (c *Catalog) Rooms() []Room {
	return append([]Room(nil), c.rooms...)
}

// FindRoom looks up a room by id
func (c *Catalog) FindRoom(id string) (Room, bool) {
	for _, r := range c.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

// RoomDisplayName returns the label of a room, or the id when unknown
func (c *Catalog) RoomDisplayName(id string) string {
	if r, ok := c.FindRoom(id); ok {
		return r.DisplayName
	}
	return id
}

// WithFoodPrices returns a copy whose food unit prices are replaced by the given overrides.
// Unknown ids are ignored.
func (c *Catalog) WithFoodPrices(prices map[string]decimal.Decimal) *Catalog {
	foods := c.FoodTypes()
	for i := range foods {
		if p, ok := prices[foods[i].ID]; ok {
			foods[i].UnitPrice = p
		}
	}
	return New(c.items[KindBeverage], c.items[KindEntremeses], foods, c.rooms)
}

// WithRoomRates returns a copy whose room hourly rates are replaced by the given overrides
func (c *Catalog) WithRoomRates(rates map[string]decimal.Decimal) *Catalog {
	rooms := c.Rooms()
	for i := range rooms {
		if r, ok := rates[rooms[i].ID]; ok {
			rooms[i].HourlyRate = r
		}
	}
	return New(c.items[KindBeverage], c.items[KindEntremeses], c.foods, rooms)
}
