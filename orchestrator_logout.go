package authkit

import "context"

// Logout ends the session. The backend call is best effort; local cleanup
// always runs, so Logout cannot fail and is safe to call repeatedly or
// while unauthenticated. Any in-flight operation is superseded.
func (o *Orchestrator) Logout(ctx context.Context) {
	o.beginOp()

	userID := ""
	if sess := o.sessions.Snapshot(); sess.User != nil {
		userID = sess.User.ID
	}

	if err := o.backend.Logout(ctx); err != nil {
		o.log.WithError(err).Debug("backend logout failed, continuing local cleanup")
	}

	o.mu.Lock()
	o.resetLocalState(ctx)
	o.mu.Unlock()

	o.metrics.Inc(MetricLogout)
	o.emit(ctx, AuditEvent{EventType: "logout", UserID: userID, Success: true})
}

// resetLocalState wipes everything the session accumulated: tokens on both
// tiers, the workspace context, rate-limit records, the persisted snapshot,
// and any pending second-factor handshake. The client installation id is
// deliberately kept. Callers hold mu.
func (o *Orchestrator) resetLocalState(ctx context.Context) {
	o.pendingEmail = ""
	o.pendingRemember = false

	o.tokens.Clear(ctx)
	o.workspaces.Clear(ctx)
	o.limiter.ClearAll()
	o.clearSnapshot(ctx)

	o.sessions.Reset()
	o.sessions.SetStatus(StatusUnauthenticated)
}
