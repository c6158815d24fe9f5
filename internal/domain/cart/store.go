// internal/domain/cart/store.go
package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists serialized carts by session id. The TTL passed to Save is
// anchored to the cart's absolute expiry, so storage drops a cart at the
// same moment the aggregate considers it expired.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]byte, bool, error)
	Save(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore keeps each cart as one JSON string value.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed cart store.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Load reads the serialized cart for a session.
func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to load cart: %w", err)
	}
	return data, true, nil
}

// Save writes the serialized cart with the given TTL.
func (s *RedisStore) Save(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete erases the persisted cart entirely.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
