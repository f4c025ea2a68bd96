package authkit

import (
	"io"

	internalaudit "github.com/dvespero/authkit/internal/audit"
	"github.com/dvespero/authkit/session"
	"github.com/dvespero/authkit/workspace"
)

// UserProfile is the identity attached to an authenticated session.
type UserProfile = session.UserProfile

// Session is the read-only authentication state exposed to UI code.
type Session = session.Session

// Status is the authentication lifecycle state.
type Status = session.Status

const (
	// StatusIdle is an exported constant used by the session state machine.
	StatusIdle = session.StatusIdle
	// StatusLoading is an exported constant used by the session state machine.
	StatusLoading = session.StatusLoading
	// StatusAuthenticated is an exported constant used by the session state machine.
	StatusAuthenticated = session.StatusAuthenticated
	// StatusUnauthenticated is an exported constant used by the session state machine.
	StatusUnauthenticated = session.StatusUnauthenticated
	// StatusRequiresSecondFactor is an exported constant used by the session state machine.
	StatusRequiresSecondFactor = session.StatusRequiresSecondFactor
	// StatusRequiresWorkspace is an exported constant used by the session state machine.
	StatusRequiresWorkspace = session.StatusRequiresWorkspace
)

// Credentials is the login input. Remember selects the durable persistence
// tier for the issued token set.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

// ContextSelection is the workspace-selection input.
type ContextSelection struct {
	CompanyID       string `json:"companyId" validate:"required"`
	EstablishmentID string `json:"establishmentId" validate:"required"`
}

// ResetPasswordPayload completes a password reset started by email.
type ResetPasswordPayload struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// SetPasswordPayload sets the first password of an invited account.
type SetPasswordPayload struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// TokenGrant is the token material issued by the backend. RefreshToken may
// be empty on refresh responses that do not rotate it.
type TokenGrant struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	// ExpiresIn is the access token lifetime in seconds. Zero means
	// "derive from the token itself".
	ExpiresIn int64 `json:"expiresIn"`
}

// AuthResponse is the wire shape returned by login and second-factor
// verification. Field tags follow the backend's (Spanish) payload names.
type AuthResponse struct {
	User      *UserProfile               `json:"user"`
	Tokens    TokenGrant                 `json:"tokens"`
	Companies []workspace.CompanySummary `json:"empresas"`

	// CurrentContext is set when the backend could resolve the workspace
	// on its own (single-company accounts).
	CurrentContext *workspace.Context `json:"contextoActual,omitempty"`
	// RequiresContextSelection signals the user must pick a workspace
	// before the session is usable.
	RequiresContextSelection bool `json:"requiereSeleccionContexto"`
}

// Acknowledgement is the backend's reply to password-reset operations.
type Acknowledgement struct {
	Message string `json:"message"`
}

// LoginResult is returned by [Orchestrator.Login].
type LoginResult struct {
	Success bool
	// RequiresSecondFactor means credentials passed but a one-time code
	// is still needed; authentication is not complete.
	RequiresSecondFactor bool
	// RequiresWorkspace means the session is authenticated but a
	// workspace must be selected.
	RequiresWorkspace bool
	Failure           *Failure
}

// VerifyResult is returned by [Orchestrator.VerifySecondFactor].
type VerifyResult struct {
	Success           bool
	RequiresWorkspace bool
	Failure           *Failure
}

// SelectContextResult is returned by [Orchestrator.SelectContext].
type SelectContextResult struct {
	Success bool
	Failure *Failure
}

// PasswordResetResult is returned by the password-reset operations.
type PasswordResetResult struct {
	Success bool
	Message string
	Failure *Failure
}

// AuditEvent is a structured session-lifecycle record emitted by the
// orchestrator.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the orchestrator's audit
// dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
