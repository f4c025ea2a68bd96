// Package token manages the bearer credential lifecycle: storing,
// retrieving, and clearing the access/refresh token set.
//
// # Persistence tiers
//
// The manager holds two [storage.Tier] capabilities. The remember flag
// chosen at login selects where a token set lives: the durable tier
// survives full restarts, the ephemeral tier does not. Exactly one tier
// holds a set at a time — saving to one deletes from the other.
//
// # Failure semantics
//
// Storage failures (quota, connectivity) are swallowed and logged. Token
// absence is a valid, recoverable state; no operation here ever escalates
// a storage error to the caller.
//
// Access-token freshness is not this package's concern — the orchestrator
// refreshes lazily. When the backend omits an expires-in value, the expiry
// is derived from the access token's exp claim via an unverified JWT parse
// (signature validation is the server's job, not the client's).
package token
