package authkit

import "context"

// SelectContext asks the backend to activate the given company and
// establishment, persists the resolved context, and moves the session to
// Authenticated. Only valid while the session is authenticated or waiting
// on a workspace choice.
func (o *Orchestrator) SelectContext(ctx context.Context, sel ContextSelection) SelectContextResult {
	if err := o.validate.Struct(sel); err != nil {
		return SelectContextResult{Failure: o.validationFailure(err)}
	}

	status := o.sessions.Snapshot().Status
	if status != StatusRequiresWorkspace && status != StatusAuthenticated {
		return SelectContextResult{Failure: &Failure{
			Code:    CodeInvalidState,
			Message: "no authenticated session to select a workspace for",
		}}
	}

	gen := o.beginOp()
	o.sessions.ClearError()

	wc, err := o.backend.SelectContext(ctx, sel)

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.current(gen) {
		return SelectContextResult{Failure: o.superseded("select_context")}
	}

	if err != nil {
		f := failureFromError(err)
		o.metrics.Inc(MetricContextSelectionFailure)
		o.sessions.SetError(f.Message)
		o.emit(ctx, AuditEvent{EventType: "select_context", CompanyID: sel.CompanyID, Error: f.Code})
		return SelectContextResult{Failure: f}
	}
	if wc == nil || !wc.Valid() {
		f := &Failure{Code: CodeBackend, Message: "malformed context response"}
		o.metrics.Inc(MetricContextSelectionFailure)
		o.sessions.SetError(f.Message)
		return SelectContextResult{Failure: f}
	}

	if err := o.workspaces.Save(ctx, *wc); err != nil {
		o.log.WithError(err).Warn("workspace context save failed")
	}
	o.sessions.SetHasWorkspace(true)
	o.sessions.SetStatus(StatusAuthenticated)
	o.persistSnapshot(ctx)

	o.metrics.Inc(MetricContextSelected)
	o.emit(ctx, AuditEvent{
		EventType: "select_context",
		CompanyID: wc.CompanyID,
		Success:   true,
	})
	return SelectContextResult{Success: true}
}
