package storage

import (
	"context"
	"errors"

	"antesala/pkg/cache"
)

// RedisStore keeps the whole collection as one JSON value under a single key,
// the same layout the browser used for its local storage.
type RedisStore[T any] struct {
	cache cache.Service
	key   string
}

func NewRedisStore[T any](cacheService cache.Service, key string) *RedisStore[T] {
	return &RedisStore[T]{cache: cacheService, key: key}
}

func (s *RedisStore[T]) LoadAll(ctx context.Context) ([]T, error) {
	var items []T
	if err := s.cache.Get(ctx, s.key, &items); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return []T{}, nil
		}
		return nil, &PersistenceError{Op: "load", Backend: "redis", Err: err}
	}
	return items, nil
}

func (s *RedisStore[T]) SaveAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	// No TTL: this is durable storage, not a cache entry
	if err := s.cache.Set(ctx, s.key, items, 0); err != nil {
		return &PersistenceError{Op: "save", Backend: "redis", Err: err}
	}
	return nil
}
