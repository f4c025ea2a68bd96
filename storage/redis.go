package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisTier is the durable [Tier] backed by Redis. All keys are namespaced
// under a prefix so multiple clients can share one Redis database.
type RedisTier struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisTier creates a durable tier over the given Redis client.
// prefix sets the key namespace; empty means "ak".
func NewRedisTier(client redis.UniversalClient, prefix string) *RedisTier {
	if prefix == "" {
		prefix = "ak"
	}
	return &RedisTier{redis: client, prefix: prefix}
}

func (t *RedisTier) key(k string) string {
	return t.prefix + ":" + k
}

// Get retrieves the value for key. Returns [ErrNotFound] when absent.
func (t *RedisTier) Get(ctx context.Context, key string) (string, error) {
	val, err := t.redis.Get(ctx, t.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return val, nil
}

// Set stores the value under key without expiry. Values persisted here are
// removed explicitly by the orchestrator (logout, replacement), never by TTL.
func (t *RedisTier) Set(ctx context.Context, key, value string) error {
	if err := t.redis.Set(ctx, t.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (t *RedisTier) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	namespaced := make([]string, len(keys))
	for i, k := range keys {
		namespaced[i] = t.key(k)
	}
	if err := t.redis.Del(ctx, namespaced...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
