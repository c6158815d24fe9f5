// internal/pkg/cache/memory_store.go
package cache

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used by tests and as a fallback when
// Redis is unavailable.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		namespaces: make(map[string]map[string]Entry),
	}
}

// Get retrieves one entry.
func (s *MemoryStore) Get(ctx context.Context, namespace, key string) (*Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		return nil, false, nil
	}
	entry, ok := ns[key]
	if !ok {
		return nil, false, nil
	}
	return &entry, true, nil
}

// Set upserts one entry.
func (s *MemoryStore) Set(ctx context.Context, namespace, key string, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		ns = make(map[string]Entry)
		s.namespaces[namespace] = ns
	}
	ns[key] = *entry
	return nil
}

// Delete removes one entry.
func (s *MemoryStore) Delete(ctx context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ns, ok := s.namespaces[namespace]; ok {
		delete(ns, key)
	}
	return nil
}

// Purge drops a namespace.
func (s *MemoryStore) Purge(ctx context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.namespaces, namespace)
	return nil
}
