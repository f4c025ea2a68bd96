package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by [Tier.Get] when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// ErrUnavailable wraps backend failures (connectivity, quota). Callers in
// this library treat it as a degraded-but-recoverable condition: persistence
// is skipped and the session continues unpersisted.
var ErrUnavailable = errors.New("storage: backend unavailable")

// Tier is a key-value persistence capability. Implementations decide
// durability: a durable tier survives full process restarts, an ephemeral
// tier does not.
type Tier interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
