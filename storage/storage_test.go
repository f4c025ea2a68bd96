package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisTier(t *testing.T) (*RedisTier, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisTier(client, "tst"), mr
}

func TestRedisTierRoundTrip(t *testing.T) {
	tier, mr := newRedisTier(t)
	ctx := context.Background()

	if _, err := tier.Get(ctx, "token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := tier.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !mr.Exists("tst:token") {
		t.Fatal("expected namespaced key in redis")
	}

	val, err := tier.Get(ctx, "token")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "abc" {
		t.Fatalf("expected abc, got %q", val)
	}

	if err := tier.Delete(ctx, "token", "missing"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := tier.Get(ctx, "token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRedisTierUnavailable(t *testing.T) {
	tier, mr := newRedisTier(t)
	mr.Close()

	ctx := context.Background()
	if err := tier.Set(ctx, "k", "v"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := tier.Get(ctx, "k"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestMemoryTierRoundTrip(t *testing.T) {
	tier := NewMemoryTier()
	ctx := context.Background()

	if _, err := tier.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := tier.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, err := tier.Get(ctx, "k")
	if err != nil || val != "v" {
		t.Fatalf("Get = %q, %v", val, err)
	}
	if err := tier.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := tier.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryTierDeleteIdempotent(t *testing.T) {
	tier := NewMemoryTier()
	ctx := context.Background()

	if err := tier.Delete(ctx, "never-set"); err != nil {
		t.Fatalf("Delete of missing key failed: %v", err)
	}
	if err := tier.Delete(ctx, "never-set"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
}
