package storage

import (
	"context"
	"errors"
	"fmt"
)

// UnavailableGateway stands in for a remote store that could not be reached
// at startup. Every call fails, so a FallbackGateway in front of it serves
// each operation from the local store and reports the sync as stale.
type UnavailableGateway[T any] struct {
	err error
}

func NewUnavailableGateway[T any](err error) *UnavailableGateway[T] {
	if err == nil {
		err = errors.New("not connected")
	}
	return &UnavailableGateway[T]{err: err}
}

func (g *UnavailableGateway[T]) LoadAll(ctx context.Context) ([]T, error) {
	return nil, fmt.Errorf("remote store unavailable: %w", g.err)
}

func (g *UnavailableGateway[T]) SaveAll(ctx context.Context, items []T) error {
	return fmt.Errorf("remote store unavailable: %w", g.err)
}
