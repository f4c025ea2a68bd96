package authkit

import (
	"context"
	"time"

	"github.com/dvespero/authkit/internal/rate"
)

// Login authenticates creds against the backend. The attempt is counted
// and throttled per email before any network call. On success the session
// becomes Authenticated or RequiresWorkspace; when the account has a
// second factor enabled the result reports RequiresSecondFactor and the
// caller must follow up with [Orchestrator.VerifySecondFactor].
func (o *Orchestrator) Login(ctx context.Context, creds Credentials) LoginResult {
	if err := o.validate.Struct(creds); err != nil {
		f := o.validationFailure(err)
		o.sessions.SetError(f.Message)
		return LoginResult{Failure: f}
	}

	identifier := creds.Email
	o.limiter.RecordAttempt(rate.ActionLogin, identifier)
	if o.limiter.IsBlocked(rate.ActionLogin, identifier) {
		f := o.rateLimitFailure(rate.ActionLogin, identifier)
		o.metrics.Inc(MetricLoginRateLimited)
		o.sessions.SetError(f.Message)
		o.emit(ctx, AuditEvent{EventType: "login", Identifier: identifier, Error: f.Code})
		return LoginResult{Failure: f}
	}

	gen := o.beginOp()
	o.sessions.ClearError()
	o.sessions.SetStatus(StatusLoading)

	resp, err := o.backend.Login(ctx, creds)

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.current(gen) {
		return LoginResult{Failure: o.superseded("login")}
	}

	if err != nil {
		f := failureFromError(err)
		o.metrics.Inc(MetricLoginFailure)
		o.sessions.SetStatus(StatusUnauthenticated)
		o.sessions.SetError(f.Message)
		o.emit(ctx, AuditEvent{EventType: "login", Identifier: identifier, Error: f.Code})
		o.log.WithField("code", f.Code).Info("login rejected")
		return LoginResult{Failure: f}
	}
	if resp == nil || resp.User == nil {
		f := &Failure{Code: CodeBackend, Message: "malformed login response"}
		o.metrics.Inc(MetricLoginFailure)
		o.sessions.SetStatus(StatusUnauthenticated)
		o.sessions.SetError(f.Message)
		return LoginResult{Failure: f}
	}

	if resp.User.Require2FA {
		// Credentials passed but the session is not authenticated yet.
		// The interim token only authorizes the verification call, so it
		// never touches the durable tier.
		o.pendingEmail = identifier
		o.pendingRemember = creds.Remember
		o.tokens.Save(ctx, resp.Tokens.AccessToken, "", time.Duration(resp.Tokens.ExpiresIn)*time.Second, false)
		o.sessions.SetUser(resp.User)
		o.sessions.SetStatus(StatusRequiresSecondFactor)
		o.metrics.Inc(MetricSecondFactorRequired)
		o.emit(ctx, AuditEvent{
			EventType:  "login",
			Identifier: identifier,
			UserID:     resp.User.ID,
			Success:    true,
			Metadata:   map[string]string{"second_factor": "pending"},
		})
		return LoginResult{RequiresSecondFactor: true}
	}

	o.limiter.Reset(rate.ActionLogin, identifier)
	requiresWorkspace := o.completeAuthentication(ctx, resp, creds.Remember)
	o.metrics.Inc(MetricLoginSuccess)
	o.emit(ctx, AuditEvent{
		EventType:  "login",
		Identifier: identifier,
		UserID:     resp.User.ID,
		Success:    true,
	})
	return LoginResult{Success: true, RequiresWorkspace: requiresWorkspace}
}

// completeAuthentication is the shared tail of login and second-factor
// verification: persist the tokens on the remember-selected tier, install
// the profile, and resolve the workspace state. Callers hold mu.
func (o *Orchestrator) completeAuthentication(ctx context.Context, resp *AuthResponse, remember bool) (requiresWorkspace bool) {
	o.applyTokens(ctx, resp.Tokens, remember)
	o.sessions.SetUser(resp.User)

	switch {
	case resp.CurrentContext != nil && resp.CurrentContext.Valid():
		if err := o.workspaces.Save(ctx, *resp.CurrentContext); err != nil {
			o.log.WithError(err).Warn("workspace context save failed")
		}
		o.sessions.SetHasWorkspace(true)
		o.sessions.SetStatus(StatusAuthenticated)
	case resp.RequiresContextSelection:
		// The backend is authoritative: even a previously persisted
		// context does not bypass an explicit selection requirement.
		o.sessions.SetHasWorkspace(false)
		o.sessions.SetStatus(StatusRequiresWorkspace)
		requiresWorkspace = true
	default:
		o.sessions.SetHasWorkspace(o.workspaces.Has(ctx))
		o.sessions.SetStatus(StatusAuthenticated)
	}

	o.persistSnapshot(ctx)
	return requiresWorkspace
}
