// Package authkit is the client-side session and authentication
// orchestration layer of a multi-tenant business application.
//
// It drives a user from unauthenticated through credential verification,
// optional second-factor verification, and company/establishment selection
// to a fully usable session — and keeps that session alive, persisted
// across restarts, and torn down cleanly.
//
// # Architecture
//
//   - [Orchestrator] — the coordinating state machine: login, second
//     factor, workspace selection, refresh, logout, password reset, and
//     bootstrap-on-start.
//   - [session.Store] — single source of truth for authentication status.
//   - [token.Manager] — access/refresh token lifecycle across a durable
//     and an ephemeral persistence tier.
//   - [workspace.Store] — the selected company + establishment context.
//   - internal/rate — in-process attempt limiting for login, one-time
//     codes, and password-reset requests.
//
// The HTTP transport is not part of this library: callers supply an
// [AuthBackend] implementation and this package treats it as opaque.
// Orchestrator methods never panic and never throw past their boundary —
// each returns a discriminated result carrying an optional [*Failure], so
// UI layers render inline errors without error-handling ceremony.
//
// # Construction
//
//	orch, err := authkit.New().
//		WithBackend(backend).
//		WithRedis(redisClient).
//		Build()
//
// Call [Orchestrator.InitializeSession] exactly once at startup before any
// route guard reads the session.
package authkit
