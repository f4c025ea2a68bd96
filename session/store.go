package session

import "sync"

// Store is the process-wide holder of the current [Session]. All mutations
// are synchronous and free of I/O; the store itself never fails. Only the
// orchestrator is meant to call the mutators — UI code reads [Store.Snapshot].
type Store struct {
	mu      sync.RWMutex
	current Session
}

// NewStore creates a store in the initial empty state (StatusIdle).
func NewStore() *Store {
	return &Store{current: Session{Status: StatusIdle}}
}

// Snapshot returns a copy of the current session. The profile pointer is
// shared; callers must treat it as read-only.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetUser replaces the user profile. A nil profile is valid and represents
// an anonymous session.
func (s *Store) SetUser(user *UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.User = user
	s.applyDerived()
}

// SetStatus moves the state machine to status and re-derives the boolean
// flags so they can never disagree with it. Entering StatusUnauthenticated
// drops the user and the workspace flag.
func (s *Store) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Status = status
	if status == StatusUnauthenticated {
		s.current.User = nil
		s.current.HasWorkspace = false
	}
	s.applyDerived()
}

// SetHasWorkspace records whether a workspace context is resolved.
func (s *Store) SetHasWorkspace(has bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.HasWorkspace = has
}

// SetError records an orchestrator-supplied message for the UI.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.LastError = msg
}

// ClearError removes any recorded error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.LastError = ""
}

// Reset returns the store to its initial empty state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{Status: StatusIdle}
}

// applyDerived keeps the flags consistent with the status. Callers must
// hold the write lock.
func (s *Store) applyDerived() {
	st := s.current.Status
	s.current.Authenticated = (st == StatusAuthenticated || st == StatusRequiresWorkspace) && s.current.User != nil
	s.current.RequiresSecondFactor = st == StatusRequiresSecondFactor
}
