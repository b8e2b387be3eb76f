package tables

import (
	"fmt"
	"strconv"
	"strings"

	"antesala/internal/catalog"
)

// Shape is a table shape
type Shape string

const (
	ShapeRound       Shape = "round"
	ShapeRectangular Shape = "rectangular"
)

func (s Shape) IsValid() bool {
	return s == ShapeRound || s == ShapeRectangular
}

func (s Shape) String() string {
	return string(s)
}

// Configuration is the seating plan of an event. TableCount is derived
// from the guest count and is recomputed rather than trusted.
type Configuration struct {
	TableType     Shape `json:"tableType"`
	SeatsPerTable int   `json:"seatsPerTable"`
	TableCount    int   `json:"tableCount"`
}

// ComputeTableCount returns the tables needed to seat every guest
func ComputeTableCount(guestCount, seatsPerTable int) int {
	if guestCount <= 0 || seatsPerTable <= 0 {
		return 0
	}
	return (guestCount + seatsPerTable - 1) / seatsPerTable
}

// ParseSelector splits a selector such as "round-8". It reports false on malformed input.
func ParseSelector(selector string) (Shape, int, bool) {
	shapePart, seatsPart, found := strings.Cut(strings.TrimSpace(selector), "-")
	if !found {
		return "", 0, false
	}
	shape := Shape(shapePart)
	if !shape.IsValid() {
		return "", 0, false
	}
	seats, err := strconv.Atoi(seatsPart)
	if err != nil || seats <= 0 {
		return "", 0, false
	}
	return shape, seats, true
}

// FromSelector builds a configuration for the guest count, or nil when the selector is malformed
func FromSelector(selector string, guestCount int) *Configuration {
	shape, seats, ok := ParseSelector(selector)
	if !ok {
		return nil
	}
	return &Configuration{
		TableType:     shape,
		SeatsPerTable: seats,
		TableCount:    ComputeTableCount(guestCount, seats),
	}
}

// Selector renders the configuration back into its selector form
func (c Configuration) Selector() string {
	if !c.TableType.IsValid() || c.SeatsPerTable <= 0 {
		return ""
	}
	return fmt.Sprintf("%s-%d", c.TableType, c.SeatsPerTable)
}

// Recompute refreshes TableCount for a new guest count
func (c *Configuration) Recompute(guestCount int) {
	c.TableCount = ComputeTableCount(guestCount, c.SeatsPerTable)
}

// Describe renders e.g. "7 Mesas Redonda (8 asientos c/u)"
func (c Configuration) Describe() string {
	if !c.TableType.IsValid() || c.TableCount == 0 {
		return ""
	}
	noun := "Mesas"
	if c.TableCount == 1 {
		noun = "Mesa"
	}
	shape := strings.TrimPrefix(catalog.TableShapeDisplayName(string(c.TableType)), "Mesa ")
	out := fmt.Sprintf("%d %s %s", c.TableCount, noun, shape)
	if c.SeatsPerTable > 0 {
		out += fmt.Sprintf(" (%d asientos c/u)", c.SeatsPerTable)
	}
	return out
}
