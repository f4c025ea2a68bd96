package rate

import (
	"strings"
	"sync"
	"time"
)

// Policy holds the attempt budget for one guarded action.
type Policy struct {
	MaxAttempts int
	Window      time.Duration
	Cooldown    time.Duration
}

// Well-known action names. The limiter accepts arbitrary actions as long as
// a policy is registered for them.
const (
	ActionLogin         = "login"
	ActionSecondFactor  = "otp"
	ActionPasswordReset = "password_reset"
)

// DefaultPolicies returns the per-action defaults. Callers may override any
// of them through the root configuration.
func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		ActionLogin:         {MaxAttempts: 5, Window: 15 * time.Minute, Cooldown: 5 * time.Minute},
		ActionSecondFactor:  {MaxAttempts: 3, Window: 5 * time.Minute, Cooldown: 2 * time.Minute},
		ActionPasswordReset: {MaxAttempts: 3, Window: 60 * time.Minute, Cooldown: 10 * time.Minute},
	}
}

type record struct {
	attempts     int
	windowStart  time.Time
	blockedUntil time.Time
}

// Limiter tracks attempt counts per (action, identifier) and enforces
// cooldown windows. Safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	policies map[string]Policy
	records  map[string]*record
	now      func() time.Time
}

// NewLimiter creates a [Limiter] with the given per-action policies.
// Actions missing from policies have a zero budget and are never blocked,
// so callers should register every guarded action.
func NewLimiter(policies map[string]Policy) *Limiter {
	if policies == nil {
		policies = DefaultPolicies()
	}
	return &Limiter{
		policies: policies,
		records:  make(map[string]*record),
		now:      time.Now,
	}
}

// SetClock overrides the limiter's time source. Test hook.
func (l *Limiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

func key(action, identifier string) string {
	return action + ":" + strings.ToLower(strings.TrimSpace(identifier))
}

// RecordAttempt increments the window counter for (action, identifier).
// An expired window starts over at count 1. Once the count exceeds the
// action's budget the record is blocked for the action's cooldown.
func (l *Limiter) RecordAttempt(action, identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	policy, ok := l.policies[action]
	if !ok || policy.MaxAttempts <= 0 {
		return
	}

	now := l.now()
	k := key(action, identifier)

	rec, ok := l.records[k]
	if !ok || now.Sub(rec.windowStart) > policy.Window {
		l.records[k] = &record{attempts: 1, windowStart: now}
		return
	}

	rec.attempts++
	if rec.attempts > policy.MaxAttempts && rec.blockedUntil.IsZero() {
		rec.blockedUntil = now.Add(policy.Cooldown)
	}
}

// IsBlocked reports whether (action, identifier) is inside a cooldown.
// A record whose cooldown has elapsed is deleted on observation.
func (l *Limiter) IsBlocked(action, identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := key(action, identifier)
	rec, ok := l.records[k]
	if !ok || rec.blockedUntil.IsZero() {
		return false
	}

	if !l.now().Before(rec.blockedUntil) {
		delete(l.records, k)
		return false
	}
	return true
}

// RemainingCooldown returns the whole seconds left in the cooldown for
// (action, identifier), rounded up, or 0 when not blocked.
func (l *Limiter) RemainingCooldown(action, identifier string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[key(action, identifier)]
	if !ok || rec.blockedUntil.IsZero() {
		return 0
	}

	left := rec.blockedUntil.Sub(l.now())
	if left <= 0 {
		return 0
	}
	secs := int(left / time.Second)
	if left%time.Second != 0 {
		secs++
	}
	return secs
}

// RemainingAttempts returns how many attempts are left in the current
// window before the cooldown engages, never below 0.
func (l *Limiter) RemainingAttempts(action, identifier string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	policy, ok := l.policies[action]
	if !ok {
		return 0
	}

	rec, ok := l.records[key(action, identifier)]
	if !ok || l.now().Sub(rec.windowStart) > policy.Window {
		return policy.MaxAttempts
	}

	left := policy.MaxAttempts - rec.attempts
	if left < 0 {
		return 0
	}
	return left
}

// Reset clears the record for (action, identifier). Called after the
// guarded action completes successfully.
func (l *Limiter) Reset(action, identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, key(action, identifier))
}

// ClearAll wipes every record. Called on logout.
func (l *Limiter) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = make(map[string]*record)
}
