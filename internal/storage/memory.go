package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. It is the default store and
// the one used by tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	return s.Apply(ctx, Put(key, value))
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	return s.Apply(ctx, Remove(key))
}

func (s *MemoryStore) Apply(ctx context.Context, writes ...Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		if w.Delete {
			delete(s.values, w.Key)
			continue
		}
		s.values[w.Key] = append([]byte(nil), w.Value...)
	}
	return nil
}
