package authkit

import (
	"context"

	"github.com/dvespero/authkit/workspace"
)

// AuthBackend is the external transport collaborator. Implementations own
// HTTP concerns (base URLs, timeouts, retries, cancellation); this library
// treats every call as opaque and maps failures into [Failure] values.
//
// Calls should return [*BackendError] for structured server rejections;
// any other error is surfaced as a generic backend failure.
type AuthBackend interface {
	Login(ctx context.Context, creds Credentials) (*AuthResponse, error)
	VerifySecondFactor(ctx context.Context, code string) (*AuthResponse, error)
	Profile(ctx context.Context) (*UserProfile, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenGrant, error)
	Logout(ctx context.Context) error
	SelectContext(ctx context.Context, sel ContextSelection) (*workspace.Context, error)
	RequestPasswordReset(ctx context.Context, email string) (*Acknowledgement, error)
	ResetPassword(ctx context.Context, payload ResetPasswordPayload) (*Acknowledgement, error)
	SetPassword(ctx context.Context, payload SetPasswordPayload) (*Acknowledgement, error)
}

// BackendError is a structured rejection from the backend.
type BackendError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *BackendError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}
