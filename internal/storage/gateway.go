package storage

import (
	"context"
	"errors"
	"fmt"
)

// Gateway durably mirrors a whole collection. SaveAll always replaces everything.
type Gateway[T any] interface {
	LoadAll(ctx context.Context) ([]T, error)
	SaveAll(ctx context.Context, items []T) error
}

// Subscriber pushes full snapshots of the collection when it changes elsewhere
type Subscriber[T any] interface {
	Subscribe(ctx context.Context, onChange func([]T)) (unsubscribe func(), err error)
}

// Document is a value that can live in the document store
type Document interface {
	DocumentID() string
	DocumentSortKey() string
}

var (
	// ErrSyncStale marks a write that only reached the local store
	ErrSyncStale = errors.New("remote sync may be stale")
	// ErrNoSubscriber is returned when live sync is not configured
	ErrNoSubscriber = errors.New("live sync is not configured")
)

// PersistenceError describes a failed load, save or publish against one backend
type PersistenceError struct {
	Op        string
	Backend   string
	Err       error
	Recovered bool
}

func (e *PersistenceError) Error() string {
	if e.Recovered {
		return fmt.Sprintf("%s on %s failed, sync may be stale: %v", e.Op, e.Backend, e.Err)
	}
	return fmt.Sprintf("%s on %s failed: %v", e.Op, e.Backend, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is makes recovered failures match ErrSyncStale
func (e *PersistenceError) Is(target error) bool {
	return e.Recovered && target == ErrSyncStale
}
