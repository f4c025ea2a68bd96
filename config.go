package authkit

import (
	"errors"
	"time"
)

// Config defines the tunable behavior of the orchestrator and its stores.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Session   SessionConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

// AttemptPolicy is the budget for one rate-limited action: up to
// MaxAttempts inside Window, then Cooldown once exceeded.
type AttemptPolicy struct {
	MaxAttempts int
	Window      time.Duration
	Cooldown    time.Duration
}

// RateLimitConfig holds the per-action attempt policies.
//
// The limiter is in-memory and best-effort: a process restart clears every
// record. It is a UX deterrent, not a security control — authoritative
// rate limiting must exist server-side.
type RateLimitConfig struct {
	Login         AttemptPolicy
	SecondFactor  AttemptPolicy
	PasswordReset AttemptPolicy
}

// StorageConfig controls the persistence key namespace.
type StorageConfig struct {
	// KeyPrefix namespaces every durable key. Defaults to "ak".
	KeyPrefix string
}

// SessionConfig controls session snapshot persistence.
type SessionConfig struct {
	// PersistSnapshot writes the user profile and workspace flag to the
	// durable tier so bootstrap can show identity before the profile
	// fetch returns. On by default.
	PersistSnapshot bool
}

// AuditConfig controls the audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		RateLimit: RateLimitConfig{
			Login:         AttemptPolicy{MaxAttempts: 5, Window: 15 * time.Minute, Cooldown: 5 * time.Minute},
			SecondFactor:  AttemptPolicy{MaxAttempts: 3, Window: 5 * time.Minute, Cooldown: 2 * time.Minute},
			PasswordReset: AttemptPolicy{MaxAttempts: 3, Window: 60 * time.Minute, Cooldown: 10 * time.Minute},
		},
		Storage: StorageConfig{KeyPrefix: "ak"},
		Session: SessionConfig{PersistSnapshot: true},
		Audit:   AuditConfig{Enabled: false, BufferSize: 256, DropIfFull: true},
		Metrics: MetricsConfig{Enabled: true},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are values; a shallow copy is a deep copy.
	return cfg
}

// Validate rejects configurations the orchestrator cannot run with.
func (c Config) Validate() error {
	for _, p := range []struct {
		name   string
		policy AttemptPolicy
	}{
		{"RateLimit.Login", c.RateLimit.Login},
		{"RateLimit.SecondFactor", c.RateLimit.SecondFactor},
		{"RateLimit.PasswordReset", c.RateLimit.PasswordReset},
	} {
		if p.policy.MaxAttempts <= 0 {
			return errors.New(p.name + ".MaxAttempts must be positive")
		}
		if p.policy.Window <= 0 {
			return errors.New(p.name + ".Window must be positive")
		}
		if p.policy.Cooldown <= 0 {
			return errors.New(p.name + ".Cooldown must be positive")
		}
	}

	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("Audit.BufferSize must not be negative")
	}
	return nil
}
