// Package rate implements the in-process attempt limiter guarding login,
// one-time-code verification, and password-reset requests.
//
// # Window semantics
//
// One record per (action, identifier) pair. A record counts attempts inside
// a sliding window; once the count exceeds the action's budget the record is
// blocked for the action's cooldown. Blocked records self-heal: the first
// IsBlocked observation after the cooldown elapses deletes them.
//
// The limiter is deliberately in-memory and best-effort. It bounds how often
// the client bothers the backend — it is NOT a security boundary, and a
// process restart clears every record. Authoritative rate limiting must
// exist server-side.
//
// # What this package must NOT do
//
//   - Perform I/O of any kind.
//   - Be imported outside the authkit module.
package rate
