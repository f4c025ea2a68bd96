package authkit

import (
	"context"
	"strings"

	"github.com/dvespero/authkit/internal/rate"
)

// VerifySecondFactor completes a login that reported RequiresSecondFactor.
// Attempts are throttled per the pending email. A failed code keeps the
// session in RequiresSecondFactor so the user can retry without logging in
// again; a successful one finishes authentication with the remember choice
// made at login time.
func (o *Orchestrator) VerifySecondFactor(ctx context.Context, code string) VerifyResult {
	if o.sessions.Snapshot().Status != StatusRequiresSecondFactor {
		return VerifyResult{Failure: &Failure{
			Code:    CodeInvalidState,
			Message: "no second-factor verification pending",
		}}
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return VerifyResult{Failure: &Failure{
			Code:    CodeValidation,
			Message: "verification code required",
			Field:   "code",
		}}
	}

	o.mu.Lock()
	identifier := o.pendingEmail
	remember := o.pendingRemember
	o.mu.Unlock()

	o.limiter.RecordAttempt(rate.ActionSecondFactor, identifier)
	if o.limiter.IsBlocked(rate.ActionSecondFactor, identifier) {
		f := o.rateLimitFailure(rate.ActionSecondFactor, identifier)
		o.metrics.Inc(MetricSecondFactorRateLimited)
		o.sessions.SetError(f.Message)
		o.emit(ctx, AuditEvent{EventType: "second_factor", Identifier: identifier, Error: f.Code})
		return VerifyResult{Failure: f}
	}

	gen := o.beginOp()
	o.sessions.ClearError()

	resp, err := o.backend.VerifySecondFactor(ctx, code)

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.current(gen) {
		return VerifyResult{Failure: o.superseded("second_factor")}
	}

	if err != nil {
		f := failureFromError(err)
		o.metrics.Inc(MetricSecondFactorFailure)
		// Stay in RequiresSecondFactor: the credential handshake is still
		// valid, only the code was wrong.
		o.sessions.SetError(f.Message)
		o.emit(ctx, AuditEvent{EventType: "second_factor", Identifier: identifier, Error: f.Code})
		return VerifyResult{Failure: f}
	}
	if resp == nil || resp.User == nil {
		f := &Failure{Code: CodeBackend, Message: "malformed verification response"}
		o.metrics.Inc(MetricSecondFactorFailure)
		o.sessions.SetError(f.Message)
		return VerifyResult{Failure: f}
	}

	o.limiter.Reset(rate.ActionSecondFactor, identifier)
	o.pendingEmail = ""
	o.pendingRemember = false

	requiresWorkspace := o.completeAuthentication(ctx, resp, remember)
	o.metrics.Inc(MetricSecondFactorSuccess)
	o.emit(ctx, AuditEvent{
		EventType:  "second_factor",
		Identifier: identifier,
		UserID:     resp.User.ID,
		Success:    true,
	})
	return VerifyResult{Success: true, RequiresWorkspace: requiresWorkspace}
}
