package authkit

import (
	"context"
	"errors"

	"github.com/dvespero/authkit/session"
	"github.com/dvespero/authkit/storage"
)

// InitializeSession restores the session from persisted state at startup.
// It runs at most once per orchestrator; repeat calls return immediately.
//
// When a persisted snapshot exists the stored identity is installed
// optimistically while the profile fetch is in flight, so UI code can
// render the user immediately. The backend remains authoritative: a
// rejected profile fetch that also cannot be repaired by a token refresh
// ends in Unauthenticated with all local state cleared.
func (o *Orchestrator) InitializeSession(ctx context.Context) {
	o.bootstrapOnce.Do(func() {
		o.bootstrap(ctx)
	})
}

func (o *Orchestrator) bootstrap(ctx context.Context) {
	o.clientIdentifier(ctx)
	o.sessions.SetStatus(StatusLoading)

	o.loadSnapshot(ctx)

	if !o.tokens.HasValidTokens(ctx) {
		o.mu.Lock()
		o.resetLocalState(ctx)
		o.mu.Unlock()
		o.metrics.Inc(MetricBootstrapUnauthenticated)
		return
	}

	profile, err := o.backend.Profile(ctx)
	if err != nil {
		// The access token may simply be stale. A successful refresh
		// re-fetches and installs the profile itself; anything else has
		// already ended the session.
		if !o.RefreshSession(ctx) {
			o.metrics.Inc(MetricBootstrapUnauthenticated)
			return
		}
		profile = o.sessions.Snapshot().User
		if profile == nil {
			o.mu.Lock()
			o.resetLocalState(ctx)
			o.mu.Unlock()
			o.metrics.Inc(MetricBootstrapUnauthenticated)
			return
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.sessions.SetUser(profile)
	hasWorkspace := o.workspaces.Has(ctx)
	o.sessions.SetHasWorkspace(hasWorkspace)
	if hasWorkspace {
		o.sessions.SetStatus(StatusAuthenticated)
	} else {
		o.sessions.SetStatus(StatusRequiresWorkspace)
	}
	o.persistSnapshot(ctx)

	o.metrics.Inc(MetricBootstrapAuthenticated)
	o.emit(ctx, AuditEvent{EventType: "bootstrap", UserID: profile.ID, Success: true})
}

// loadSnapshot installs the persisted identity, if any, without changing
// the lifecycle status. Corrupt snapshots are discarded.
func (o *Orchestrator) loadSnapshot(ctx context.Context) {
	if !o.config.Session.PersistSnapshot {
		return
	}
	raw, err := o.durable.Get(ctx, snapshotKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			o.log.WithError(err).Warn("session snapshot read failed")
		}
		return
	}
	user, hasWorkspace, err := session.DecodeSnapshot(raw)
	if err != nil {
		o.log.WithError(err).Warn("session snapshot corrupt, discarding")
		o.clearSnapshot(ctx)
		return
	}
	o.sessions.SetUser(user)
	o.sessions.SetHasWorkspace(hasWorkspace)
}
