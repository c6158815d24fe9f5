// internal/pkg/cache/redis_store.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each namespace in one Redis hash, one field per key.
// HSET updates a single field atomically, so writing one key can never
// clobber its siblings.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store. All hashes are prefixed to
// keep them apart from cart sessions and rate-limit counters in the same DB.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "apicache:",
	}
}

func (s *RedisStore) hashKey(namespace string) string {
	return s.prefix + namespace
}

// Get retrieves one entry from a namespace hash.
func (s *RedisStore) Get(ctx context.Context, namespace, key string) (*Entry, bool, error) {
	raw, err := s.client.HGet(ctx, s.hashKey(namespace), key).Result()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("cache read failed: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		// Corrupt field: delete it and report a miss.
		_ = s.client.HDel(ctx, s.hashKey(namespace), key).Err()
		return nil, false, nil
	}

	return &entry, true, nil
}

// Set upserts one entry into a namespace hash.
func (s *RedisStore) Set(ctx context.Context, namespace, key string, entry *Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	if err := s.client.HSet(ctx, s.hashKey(namespace), key, raw).Err(); err != nil {
		return fmt.Errorf("cache write failed: %w", err)
	}
	return nil
}

// Delete removes one entry from a namespace hash.
func (s *RedisStore) Delete(ctx context.Context, namespace, key string) error {
	return s.client.HDel(ctx, s.hashKey(namespace), key).Err()
}

// Purge drops an entire namespace hash.
func (s *RedisStore) Purge(ctx context.Context, namespace string) error {
	return s.client.Del(ctx, s.hashKey(namespace)).Err()
}
