// Package store provides SQLite-backed durable storage for profiles,
// synchronicity events, reactions, and the point award ledger.
//
// # Invariants enforced by the schema
//
//   - events.visibility is 'private' or 'shared' (CHECK)
//   - at most one reaction per (event, user, emoji) (UNIQUE)
//   - profiles.points >= 0, profiles.level >= 1 (CHECK)
//
// # Invariants enforced by the code
//
//   - ApplyProfileDelta increments points in place and recomputes level in
//     the same transaction, so concurrent awards cannot lose points
//   - last_log_date never moves backwards
//
// # Deterministic ordering
//
// Every list query breaks ties with id COLLATE BINARY so repeated reads of
// the same data return the same order.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Timestamps are stored as INTEGER Unix nanoseconds (UTC); calendar dates as
// TEXT YYYY-MM-DD.
package store
