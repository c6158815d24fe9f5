// internal/pkg/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Entry wraps a cached payload with the time it was written. Timestamps are
// epoch milliseconds to match what gets persisted.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// Store is a namespaced key-value store with per-key upsert semantics.
// Writing one key never touches sibling keys in the same namespace.
// Implementations must treat a corrupt stored entry as a miss.
type Store interface {
	Get(ctx context.Context, namespace, key string) (*Entry, bool, error)
	Set(ctx context.Context, namespace, key string, entry *Entry) error
	Delete(ctx context.Context, namespace, key string) error
	// Purge drops every entry in a namespace.
	Purge(ctx context.Context, namespace string) error
}

// IsFresh reports whether a value written at timestamp (epoch ms) is still
// within maxAge. The boundary is exclusive: a value exactly maxAge old is
// already expired.
func IsFresh(timestamp int64, maxAge time.Duration, now time.Time) bool {
	return now.UnixMilli()-timestamp < maxAge.Milliseconds()
}

// Cache is a typed convenience wrapper over a Store for one namespace.
// Every method is best-effort: errors are returned so callers can log them,
// but callers are expected to treat them as a cache miss, never as a failure
// of their own operation.
type Cache struct {
	store     Store
	namespace string
}

// New creates a cache over one namespace of the given store.
func New(store Store, namespace string) *Cache {
	return &Cache{store: store, namespace: namespace}
}

// GetJSON reads a key and unmarshals its payload into dest. The second
// return value is the entry timestamp in epoch milliseconds. A corrupt
// payload is deleted and reported as a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (int64, bool, error) {
	entry, ok, err := c.store.Get(ctx, c.namespace, key)
	if err != nil || !ok {
		return 0, false, err
	}

	if err := json.Unmarshal(entry.Data, dest); err != nil {
		// Corrupt blob: drop it rather than failing every read.
		_ = c.store.Delete(ctx, c.namespace, key)
		return 0, false, nil
	}

	return entry.Timestamp, true, nil
}

// SetJSON marshals value and upserts it under key with the current time.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.store.Set(ctx, c.namespace, key, &Entry{
		Data:      data,
		Timestamp: time.Now().UTC().UnixMilli(),
	})
}

// Delete removes a key from the namespace.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, c.namespace, key)
}
