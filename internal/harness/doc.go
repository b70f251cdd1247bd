// Package harness runs gamification scenarios against a throwaway journal.
//
// A scenario seeds profiles, drives the journal through a timed sequence of
// actions, and checks each outcome plus the final database state. Runs are
// fully deterministic, so the recorded trace can be compared against a
// golden file.
//
// # Scenario Format
//
//	name: seventh_day_milestone
//	description: "Logging on the seventh consecutive day earns the bonus"
//	start: "2026-03-01T09:00:00Z"
//	timezone: UTC
//	profiles:
//	  - id: bob
//	    display_name: Bob
//	    streak_days: 6
//	    last_log_date: "2026-02-28"
//	flow:
//	  - action: submit
//	    at: "2026-03-01T14:30:00Z"
//	    args: { user: bob, title: Owl, description: "Owl at dusk" }
//	    expect:
//	      case: ok
//	      result: { points: 10, streak_days: 7, milestone: true }
//	  - action: submit
//	    advance: 24h
//	    args: { user: bob, title: Owl again, description: "Same owl" }
//	assertions:
//	  - type: final_state
//	    table: profiles
//	    where: { id: bob }
//	    expect: { points: 120, streak_days: 8 }
//
// Supported actions are signup, submit, react and update_profile. A step's
// "at" sets the clock, "advance" moves it forward; otherwise the clock stays
// where the previous step left it.
//
// Outcome cases are ok, invalid (validation failure), not_found and error.
//
// # Assertion Types
//
//   - trace_contains: an action appears in the trace with matching args
//   - trace_order: actions appear in the given order
//   - trace_count: an action appears exactly N times
//   - final_state: a single row in a table has the expected column values
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory SQLite store, a settable clock
// (testutil.DeterministicClock) and sequential event ids
// (testutil.SequentialIDGenerator).
package harness
