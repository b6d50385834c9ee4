// Package store persists indexed screenshots in SQLite.
//
// One row exists per physical file, keyed by unique filename. Rows are
// created exactly once at discovery and mutated only additively: the backfill
// scheduler fills derived fields that were null, and explicit bridge commands
// (move, delete) adjust path and category. Schema evolution is additive and
// idempotent; adding a column that already exists is a silent no-op, so
// databases written by any earlier version open cleanly.
//
// Treat this package as the single source of truth for record semantics; new
// derived fields get a column in ensureColumns and a matching scan target.
package store
