package storage

import (
	"context"
	"errors"

	"antesala/pkg/logger"
)

// FallbackGateway tries the remote store first and falls back to the local
// store for that operation only. A recovered failure is reported as ErrSyncStale.
type FallbackGateway[T any] struct {
	remote     Gateway[T]
	local      Gateway[T]
	remoteName string
	log        *logger.Logger
}

func NewFallbackGateway[T any](remote, local Gateway[T], remoteName string, log *logger.Logger) *FallbackGateway[T] {
	if log == nil {
		log = logger.GetDefault()
	}
	return &FallbackGateway[T]{remote: remote, local: local, remoteName: remoteName, log: log}
}

func (g *FallbackGateway[T]) LoadAll(ctx context.Context) ([]T, error) {
	items, err := g.remote.LoadAll(ctx)
	if err == nil {
		return items, nil
	}
	g.log.LogPersistenceFallback(ctx, g.remoteName, err)

	items, localErr := g.local.LoadAll(ctx)
	if localErr != nil {
		return nil, errors.Join(
			&PersistenceError{Op: "load", Backend: g.remoteName, Err: err},
			localErr,
		)
	}
	return items, &PersistenceError{Op: "load", Backend: g.remoteName, Err: err, Recovered: true}
}

func (g *FallbackGateway[T]) SaveAll(ctx context.Context, items []T) error {
	err := g.remote.SaveAll(ctx, items)
	if err == nil {
		return nil
	}
	g.log.LogPersistenceFallback(ctx, g.remoteName, err)

	if localErr := g.local.SaveAll(ctx, items); localErr != nil {
		return errors.Join(
			&PersistenceError{Op: "save", Backend: g.remoteName, Err: err},
			localErr,
		)
	}
	return &PersistenceError{Op: "save", Backend: g.remoteName, Err: err, Recovered: true}
}

// Subscribe forwards to the remote store when it supports live sync
func (g *FallbackGateway[T]) Subscribe(ctx context.Context, onChange func([]T)) (func(), error) {
	if sub, ok := g.remote.(Subscriber[T]); ok {
		return sub.Subscribe(ctx, onChange)
	}
	return nil, ErrNoSubscriber
}
