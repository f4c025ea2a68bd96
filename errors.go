package authkit

import "errors"

var (
	// ErrNotReady is returned by Build when required collaborators are missing.
	ErrNotReady = errors.New("orchestrator not initialized")
	// ErrBackendRequired is returned by Build when no AuthBackend was supplied.
	ErrBackendRequired = errors.New("auth backend required")
	// ErrDurableTierRequired is returned by Build when neither a durable tier nor a Redis client was supplied.
	ErrDurableTierRequired = errors.New("durable storage tier or redis client required")
	// ErrBuilderUsed is returned when Build is called twice on one builder.
	ErrBuilderUsed = errors.New("builder already used")
)

// Failure codes carried in [Failure.Code]. Backend-supplied codes pass
// through unchanged; these are the codes this library originates.
const (
	// CodeRateLimited marks a locally throttled operation. RetryAfter
	// carries the remaining cooldown in seconds.
	CodeRateLimited = "RATE_LIMIT_EXCEEDED"
	// CodeInvalidCredentials marks rejected credentials or codes.
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	// CodeValidation marks input rejected before any backend call.
	// Field names the offending field.
	CodeValidation = "VALIDATION"
	// CodeBackend marks a backend or network failure without a more
	// specific backend-supplied code.
	CodeBackend = "BACKEND_ERROR"
	// CodeInvalidState marks an operation invoked outside its state
	// machine window (e.g. second-factor verification with none pending).
	CodeInvalidState = "INVALID_STATE"
	// CodeSuperseded marks a completion discarded because a newer
	// operation started while this one was in flight.
	CodeSuperseded = "OPERATION_SUPERSEDED"
)

// Failure is the structured error surfaced in operation results. It is a
// value for the UI, not a Go error — orchestrator methods never return
// errors past their boundary.
type Failure struct {
	Code    string
	Message string
	// Field names the offending input field for CodeValidation and
	// field-scoped backend errors.
	Field string
	// RetryAfter is the remaining cooldown in seconds for CodeRateLimited.
	RetryAfter int
}
