package storage

import (
	"context"
	"sync"
)

// MemoryTier is the ephemeral [Tier]: a process-scoped map. Token sets
// written here never survive a restart, which is exactly the contract of
// the non-remembered session.
type MemoryTier struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryTier creates an empty ephemeral tier.
func NewMemoryTier() *MemoryTier {
	return &MemoryTier{values: make(map[string]string)}
}

// Get retrieves the value for key. Returns [ErrNotFound] when absent.
func (t *MemoryTier) Get(_ context.Context, key string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	val, ok := t.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

// Set stores the value under key.
func (t *MemoryTier) Set(_ context.Context, key, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values[key] = value
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (t *MemoryTier) Delete(_ context.Context, keys ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, k := range keys {
		delete(t.values, k)
	}
	return nil
}
