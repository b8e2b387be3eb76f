package analytics

import (
	"antesala/internal/reservations"
)

// Source yields the current reservation list. The lifecycle manager is the only implementation in production.
type Source interface {
	List(order reservations.SortOrder) []reservations.Reservation
}

// SourceFunc adapts a plain function to Source
type SourceFunc func(order reservations.SortOrder) []reservations.Reservation

func (f SourceFunc) List(order reservations.SortOrder) []reservations.Reservation {
	return f(order)
}
