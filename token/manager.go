package token

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/dvespero/authkit/storage"
)

// Storage key for the serialized token set, relative to the tier namespace.
const setKey = "token"

// Set is the bearer credential pair for the current session.
type Set struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Persistent   bool      `json:"persistent"`
}

// Manager stores and retrieves the token [Set] across the durable and
// ephemeral tiers. All failures degrade to "no tokens".
type Manager struct {
	durable   storage.Tier
	ephemeral storage.Tier
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewManager creates a token manager over the two persistence tiers.
func NewManager(durable, ephemeral storage.Tier, log logrus.FieldLogger) *Manager {
	if log == nil {
		l := logrus.New()
		l.SetOutput(nopWriter{})
		log = l
	}
	return &Manager{
		durable:   durable,
		ephemeral: ephemeral,
		log:       log,
		now:       time.Now,
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// SetClock overrides the manager's time source. Test hook.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Save stores a new token set. persistent selects the tier; the other
// tier's copy is removed so exactly one tier holds the set. expiresIn of
// zero or less falls back to the access token's exp claim.
func (m *Manager) Save(ctx context.Context, access, refresh string, expiresIn time.Duration, persistent bool) {
	expiresAt := m.now().Add(expiresIn)
	if expiresIn <= 0 {
		if claimed, ok := expiryFromAccessToken(access); ok {
			expiresAt = claimed
		}
	}

	set := Set{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		Persistent:   persistent,
	}
	data, err := json.Marshal(set)
	if err != nil {
		m.log.WithError(err).Warn("token: encode failed, session continues unpersisted")
		return
	}

	target, other := m.ephemeral, m.durable
	if persistent {
		target, other = m.durable, m.ephemeral
	}
	if err := other.Delete(ctx, setKey); err != nil {
		m.log.WithError(err).Warn("token: stale tier cleanup failed")
	}
	if err := target.Set(ctx, setKey, string(data)); err != nil {
		m.log.WithError(err).Warn("token: persist failed, session continues unpersisted")
	}
}

// Get returns the stored token set, preferring the durable tier, or false
// when neither tier holds one.
func (m *Manager) Get(ctx context.Context) (Set, bool) {
	for _, tier := range []storage.Tier{m.durable, m.ephemeral} {
		raw, err := tier.Get(ctx, setKey)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				m.log.WithError(err).Warn("token: read failed")
			}
			continue
		}
		var set Set
		if err := json.Unmarshal([]byte(raw), &set); err != nil {
			m.log.WithError(err).Warn("token: stored set corrupt, discarding")
			_ = tier.Delete(ctx, setKey)
			continue
		}
		return set, true
	}
	return Set{}, false
}

// AccessToken returns the stored access token, or empty when absent.
func (m *Manager) AccessToken(ctx context.Context) string {
	set, ok := m.Get(ctx)
	if !ok {
		return ""
	}
	return set.AccessToken
}

// RefreshToken returns the stored refresh token, or empty when absent.
func (m *Manager) RefreshToken(ctx context.Context) string {
	set, ok := m.Get(ctx)
	if !ok {
		return ""
	}
	return set.RefreshToken
}

// HasValidTokens reports whether a refresh token is available. Access-token
// freshness is deliberately not checked — the orchestrator refreshes lazily.
func (m *Manager) HasValidTokens(ctx context.Context) bool {
	set, ok := m.Get(ctx)
	return ok && set.RefreshToken != ""
}

// Persistent reports which tier the current set lives in, preserving the
// remember choice across refreshes. Defaults to false when no set exists.
func (m *Manager) Persistent(ctx context.Context) bool {
	set, ok := m.Get(ctx)
	return ok && set.Persistent
}

// Clear removes the token set from both tiers.
func (m *Manager) Clear(ctx context.Context) {
	if err := m.durable.Delete(ctx, setKey); err != nil {
		m.log.WithError(err).Warn("token: durable clear failed")
	}
	if err := m.ephemeral.Delete(ctx, setKey); err != nil {
		m.log.WithError(err).Warn("token: ephemeral clear failed")
	}
}

// expiryFromAccessToken reads the exp claim without verifying the
// signature. The client treats tokens as opaque bearer values; this is an
// expiry hint, never a validity decision.
func expiryFromAccessToken(access string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
