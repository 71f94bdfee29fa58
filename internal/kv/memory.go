package kv

import (
	"context"
	"sync"
)

// MemoryBackend keeps every namespace in process memory.
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[string]map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string]map[string][]byte)}
}

func (b *MemoryBackend) Open(owner string) Store {
	return &memoryStore{backend: b, owner: owner}
}

type memoryStore struct {
	backend *MemoryBackend
	owner   string
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	v, ok := s.backend.slots[s.owner][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *memoryStore) Set(ctx context.Context, key string, value []byte) error {
	return s.MultiSet(ctx, map[string][]byte{key: value})
}

func (s *memoryStore) MultiSet(ctx context.Context, entries map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	ns, ok := s.backend.slots[s.owner]
	if !ok {
		ns = make(map[string][]byte, len(entries))
		s.backend.slots[s.owner] = ns
	}
	for k, v := range entries {
		ns[k] = append([]byte(nil), v...)
	}
	return nil
}

func (s *memoryStore) Remove(ctx context.Context, key string) error {
	return s.MultiRemove(ctx, []string{key})
}

func (s *memoryStore) MultiRemove(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	ns := s.backend.slots[s.owner]
	for _, k := range keys {
		delete(ns, k)
	}
	if len(ns) == 0 {
		delete(s.backend.slots, s.owner)
	}
	return nil
}
