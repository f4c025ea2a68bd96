// Package session holds the single source of truth for authentication
// status and user identity: the [Store] and its status state machine.
//
// # State machine
//
// Idle → Loading → {Authenticated | Unauthenticated | RequiresSecondFactor
// | RequiresWorkspace}. Selecting a workspace moves RequiresWorkspace →
// Authenticated; successful second-factor verification moves
// RequiresSecondFactor → Authenticated or RequiresWorkspace; every
// non-idle state can fall back to Unauthenticated via logout or an
// unrecoverable error.
//
// Store mutators keep the boolean flags (Authenticated,
// RequiresSecondFactor) derived from the status, so the consistency
// invariant Authenticated == (status ∈ {Authenticated, RequiresWorkspace})
// cannot be broken by a caller.
//
// # Snapshot encoding
//
// Only the user profile and the has-workspace flag survive a restart.
// They round-trip through a versioned JSON snapshot written to the durable
// tier by the orchestrator; volatile fields (status, last error) are
// re-derived at bootstrap.
//
// # What this package must NOT do
//
//   - Perform network or storage I/O.
//   - Import the root package or any sibling (no upward imports).
//   - Make authentication policy decisions — those belong to the
//     orchestrator.
package session
