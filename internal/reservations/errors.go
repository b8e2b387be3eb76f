package reservations

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when no reservation has the requested id
var ErrNotFound = errors.New("reservation not found")

// ValidationError rejects a save. It carries every failing field.
type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Result.MissingFieldIDs) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.Result.MissingFieldIDs, ", "))
	}
	if len(e.Result.InvalidFieldIDs) > 0 {
		parts = append(parts, "invalid: "+strings.Join(e.Result.InvalidFieldIDs, ", "))
	}
	return "validation failed (" + strings.Join(parts, "; ") + ")"
}

// Gateway is the durable mirror of the reservation list
type Gateway interface {
	LoadAll(ctx context.Context) ([]Reservation, error)
	SaveAll(ctx context.Context, items []Reservation) error
}

// Subscriber delivers remote replacements of the whole list
type Subscriber interface {
	Subscribe(ctx context.Context, onChange func([]Reservation)) (unsubscribe func(), err error)
}
