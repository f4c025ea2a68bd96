package authkit

import (
	"context"

	"github.com/dvespero/authkit/internal/rate"
)

// RequestPasswordReset asks the backend to email a reset link. Requests
// are throttled per email address; successful requests still count toward
// the budget so the flow cannot be used to spam a mailbox.
func (o *Orchestrator) RequestPasswordReset(ctx context.Context, email string) PasswordResetResult {
	if err := o.validate.Var(email, "required,email"); err != nil {
		return PasswordResetResult{Failure: &Failure{
			Code:    CodeValidation,
			Message: "invalid email",
			Field:   "email",
		}}
	}

	o.limiter.RecordAttempt(rate.ActionPasswordReset, email)
	if o.limiter.IsBlocked(rate.ActionPasswordReset, email) {
		f := o.rateLimitFailure(rate.ActionPasswordReset, email)
		o.metrics.Inc(MetricPasswordResetRateLimited)
		o.emit(ctx, AuditEvent{EventType: "password_reset_request", Identifier: email, Error: f.Code})
		return PasswordResetResult{Failure: f}
	}

	ack, err := o.backend.RequestPasswordReset(ctx, email)
	if err != nil {
		f := failureFromError(err)
		o.emit(ctx, AuditEvent{EventType: "password_reset_request", Identifier: email, Error: f.Code})
		return PasswordResetResult{Failure: f}
	}

	o.metrics.Inc(MetricPasswordResetRequest)
	o.emit(ctx, AuditEvent{EventType: "password_reset_request", Identifier: email, Success: true})
	return PasswordResetResult{Success: true, Message: ackMessage(ack)}
}

// ResetPassword completes an emailed reset with the token from the link.
// It does not authenticate: the user logs in with the new password after.
func (o *Orchestrator) ResetPassword(ctx context.Context, payload ResetPasswordPayload) PasswordResetResult {
	if err := o.validate.Struct(payload); err != nil {
		return PasswordResetResult{Failure: o.validationFailure(err)}
	}

	ack, err := o.backend.ResetPassword(ctx, payload)
	if err != nil {
		f := failureFromError(err)
		o.emit(ctx, AuditEvent{EventType: "password_reset", Error: f.Code})
		return PasswordResetResult{Failure: f}
	}

	o.emit(ctx, AuditEvent{EventType: "password_reset", Success: true})
	return PasswordResetResult{Success: true, Message: ackMessage(ack)}
}

// SetPassword sets the first password of an invited account using the
// invitation token.
func (o *Orchestrator) SetPassword(ctx context.Context, payload SetPasswordPayload) PasswordResetResult {
	if err := o.validate.Struct(payload); err != nil {
		return PasswordResetResult{Failure: o.validationFailure(err)}
	}

	ack, err := o.backend.SetPassword(ctx, payload)
	if err != nil {
		f := failureFromError(err)
		o.emit(ctx, AuditEvent{EventType: "set_password", Error: f.Code})
		return PasswordResetResult{Failure: f}
	}

	o.emit(ctx, AuditEvent{EventType: "set_password", Success: true})
	return PasswordResetResult{Success: true, Message: ackMessage(ack)}
}

func ackMessage(ack *Acknowledgement) string {
	if ack == nil {
		return ""
	}
	return ack.Message
}
