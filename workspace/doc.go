// Package workspace persists the selected company + establishment context
// a session operates within.
//
// Workspace choice is a user preference, not a credential, so the store
// always writes to the durable tier. Besides the full context object, a
// minimal last-used id pair is kept under its own key so UI code can
// default pickers even before a full context is available.
//
// A context is either fully absent or fully populated; partial contexts
// are rejected on save and treated as absent on read.
package workspace
