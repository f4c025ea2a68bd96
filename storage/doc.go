// Package storage provides the key-value persistence tiers used by the
// token manager, workspace store, and session snapshot persistence.
//
// # Design
//
// A [Tier] is a small durable-or-ephemeral key-value capability. The token
// manager receives both a durable and an ephemeral tier and picks one per
// the caller's remember flag; the workspace store always writes to the
// durable tier. Callers never branch on storage kind — they hold the
// capability they were given.
//
// Two implementations ship with the library: [RedisTier] (durable, survives
// process restarts) and [MemoryTier] (ephemeral, process-scoped). Custom
// tiers can be injected through the root builder.
//
// # Architecture boundaries
//
// This package owns raw key-value access and error normalization. It must
// not know about tokens, sessions, or workspace shapes — serialization is
// the caller's job.
package storage
