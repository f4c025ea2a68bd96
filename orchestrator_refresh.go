package authkit

import "context"

// RefreshSession exchanges the stored refresh token for a new token set,
// preserving the tier the old set lived in, then re-fetches the profile so
// the session reflects any server-side identity change. Terminal failure
// of either step ends the session through [Orchestrator.Logout]: a client
// that cannot refresh is effectively logged out.
//
// With no refresh token stored this is a no-op returning false; it never
// touches the backend or local state, so a stray refresh timer firing
// while signed out cannot disturb anything.
//
// Refresh never supersedes user-initiated operations; if one starts while
// the refresh is in flight, the refresh result is discarded instead.
func (o *Orchestrator) RefreshSession(ctx context.Context) bool {
	refresh := o.tokens.RefreshToken(ctx)
	if refresh == "" {
		o.metrics.Inc(MetricRefreshFailure)
		return false
	}
	persistent := o.tokens.Persistent(ctx)

	gen := o.gen.Load()

	grant, err := o.backend.RefreshToken(ctx, refresh)
	if !o.current(gen) {
		return o.discardStaleRefresh()
	}
	if err != nil || grant == nil || grant.AccessToken == "" {
		o.log.WithError(err).Info("token refresh failed, ending session")
		return o.failRefresh(ctx)
	}

	o.mu.Lock()
	if !o.current(gen) {
		o.mu.Unlock()
		return o.discardStaleRefresh()
	}
	o.applyTokens(ctx, *grant, persistent)
	o.mu.Unlock()

	profile, err := o.backend.Profile(ctx)
	if !o.current(gen) {
		return o.discardStaleRefresh()
	}
	if err != nil || profile == nil {
		o.log.WithError(err).Info("profile fetch failed after refresh, ending session")
		return o.failRefresh(ctx)
	}

	o.mu.Lock()
	if !o.current(gen) {
		o.mu.Unlock()
		return o.discardStaleRefresh()
	}
	o.sessions.SetUser(profile)
	o.persistSnapshot(ctx)
	o.mu.Unlock()

	o.metrics.Inc(MetricRefreshSuccess)
	o.emit(ctx, AuditEvent{EventType: "refresh", UserID: profile.ID, Success: true})
	return true
}

// failRefresh is the terminal-failure branch: count it, record it, and end
// the session through the full logout path so the backend is notified.
func (o *Orchestrator) failRefresh(ctx context.Context) bool {
	o.metrics.Inc(MetricRefreshFailure)
	o.emit(ctx, AuditEvent{EventType: "refresh", Error: CodeBackend})
	o.Logout(ctx)
	return false
}

func (o *Orchestrator) discardStaleRefresh() bool {
	o.metrics.Inc(MetricStaleCompletionDiscarded)
	o.log.WithField("operation", "refresh").Debug("stale completion discarded")
	return false
}
