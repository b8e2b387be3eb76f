package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps the collection in process. It backs tests and the memory backend.
type MemoryStore[T any] struct {
	mu    sync.RWMutex
	items []T
	saves int
}

func NewMemoryStore[T any](initial ...T) *MemoryStore[T] {
	return &MemoryStore[T]{items: append([]T(nil), initial...)}
}

func (s *MemoryStore[T]) LoadAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.items...), nil
}

func (s *MemoryStore[T]) SaveAll(ctx context.Context, items []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]T(nil), items...)
	s.saves++
	return nil
}

// Saves reports how many times SaveAll succeeded
func (s *MemoryStore[T]) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
