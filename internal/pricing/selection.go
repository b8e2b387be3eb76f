package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// maxQuantity bounds a unit selection so every accepted value fits an int
const maxQuantity = math.MaxInt32

// Selection is either a unit quantity or a per-guest flag.
// It serialises as a JSON number or as true.
type Selection struct {
	Quantity int
	PerGuest bool
}

// Qty builds a quantity selection
func Qty(n int) Selection { return Selection{Quantity: n} }

// PerGuestFlag builds a per-guest selection
func PerGuestFlag() Selection { return Selection{PerGuest: true} }

// IsZero reports whether the selection selects nothing
func (s Selection) IsZero() bool {
	return !s.PerGuest && s.Quantity <= 0
}

func (s Selection) MarshalJSON() ([]byte, error) {
	if s.PerGuest {
		return []byte("true"), nil
	}
	return json.Marshal(s.Quantity)
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true":
		*s = Selection{PerGuest: true}
		return nil
	case "false", "null":
		*s = Selection{}
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("selection must be a quantity or true: %w", err)
	}
	if n != math.Trunc(n) {
		return fmt.Errorf("selection quantity must be a whole number, got %s", data)
	}
	if math.Abs(n) > maxQuantity {
		return fmt.Errorf("selection quantity %s is out of range", data)
	}
	*s = Selection{Quantity: int(n)}
	return nil
}

// SelectionMap maps catalog ids to selections. Zero selections are never kept.
type SelectionMap map[string]Selection

// Set stores a selection, dropping it when it is zero
func (m SelectionMap) Set(id string, s Selection) {
	if s.IsZero() {
		delete(m, id)
		return
	}
	m[id] = s
}

// Normalized returns a copy without zero selections
func (m SelectionMap) Normalized() SelectionMap {
	out := make(SelectionMap, len(m))
	for id, s := range m {
		out.Set(id, s)
	}
	return out
}

func (m *SelectionMap) UnmarshalJSON(data []byte) error {
	raw := map[string]Selection{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = SelectionMap(raw).Normalized()
	return nil
}
