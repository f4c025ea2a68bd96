package session

// Status is the authentication lifecycle state of the current session.
type Status uint8

const (
	// StatusIdle is the initial state before bootstrap has run.
	StatusIdle Status = iota
	// StatusLoading marks an in-flight authentication operation.
	StatusLoading
	// StatusAuthenticated is a fully usable session with a workspace
	// resolved or not required.
	StatusAuthenticated
	// StatusUnauthenticated is the terminal signed-out state.
	StatusUnauthenticated
	// StatusRequiresSecondFactor means credentials were accepted but a
	// one-time code must still be verified.
	StatusRequiresSecondFactor
	// StatusRequiresWorkspace means the user is authenticated but must
	// pick a company/establishment before proceeding.
	StatusRequiresWorkspace
)

// String returns the lowercase state name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusRequiresSecondFactor:
		return "requires_second_factor"
	case StatusRequiresWorkspace:
		return "requires_workspace"
	default:
		return "unknown"
	}
}

// UserProfile is the identity attached to an authenticated session.
// Field tags follow the backend wire format.
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`

	// Require2FA signals that this account must pass a second factor
	// before the session is usable.
	Require2FA bool `json:"require2FA"`
}

// Session is the authentication state for the current process.
// Authenticated and RequiresSecondFactor are always derived from Status by
// the [Store]; LastError carries the most recent orchestrator-supplied
// message for the UI.
type Session struct {
	User                 *UserProfile
	Status               Status
	Authenticated        bool
	HasWorkspace         bool
	RequiresSecondFactor bool
	LastError            string
}
