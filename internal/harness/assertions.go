package harness

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/roach88/syncgo/internal/model"
	"github.com/roach88/syncgo/internal/store"
)

// columnKind says how a stored column reads back and how a scenario value
// for it is interpreted.
type columnKind int

const (
	kindText columnKind = iota
	kindInt
	kindBool // INTEGER 0/1
	kindDate // YYYY-MM-DD text, NULL before the first log
	kindTime // INTEGER unix nanoseconds; RFC 3339 in scenarios
)

// stateTables are the tables final_state can inspect. Identifiers are only
// ever interpolated from this map.
var stateTables = map[string]map[string]columnKind{
	"profiles": {
		"id":               kindText,
		"display_name":     kindText,
		"points":           kindInt,
		"level":            kindInt,
		"streak_days":      kindInt,
		"last_log_date":    kindDate,
		"share_by_default": kindBool,
		"created_at":       kindTime,
		"updated_at":       kindTime,
	},
	"events": {
		"id":           kindText,
		"user_id":      kindText,
		"title":        kindText,
		"description":  kindText,
		"location":     kindText,
		"occurred_at":  kindTime,
		"category":     kindText,
		"photo_url":    kindText,
		"visibility":   kindText,
		"display_name": kindText,
		"created_at":   kindTime,
	},
	"event_tags": {
		"event_id": kindText,
		"position": kindInt,
		"tag":      kindText,
	},
	"reactions": {
		"event_id":   kindText,
		"user_id":    kindText,
		"emoji":      kindText,
		"created_at": kindTime,
	},
	"point_awards": {
		"id":         kindInt,
		"user_id":    kindText,
		"points":     kindInt,
		"reason":     kindText,
		"created_at": kindTime,
	},
}

// fromScenario converts a YAML value into the comparable form for k:
// string for text, date and time columns, int64 for integers, bool for flags.
// A nil value stands for NULL.
func (k columnKind) fromScenario(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch k {
	case kindText:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case kindInt:
		if n, ok := asInt(v); ok {
			return n, nil
		}
	case kindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case kindDate:
		switch d := v.(type) {
		case string:
			parsed, err := model.ParseDate(d)
			if err != nil {
				return nil, err
			}
			return parsed.String(), nil
		case time.Time:
			return model.DateOf(d).String(), nil
		}
	case kindTime:
		switch t := v.(type) {
		case string:
			parsed, err := time.Parse(time.RFC3339, t)
			if err != nil {
				return nil, err
			}
			return formatInstant(parsed), nil
		case time.Time:
			return formatInstant(t), nil
		}
	}
	return nil, fmt.Errorf("unexpected %T value %v", v, v)
}

// fromStore converts a scanned SQLite value into the comparable form for k.
func (k columnKind) fromStore(raw interface{}) (interface{}, error) {
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	if raw == nil {
		return nil, nil
	}
	switch k {
	case kindText, kindDate:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case kindInt:
		if n, ok := raw.(int64); ok {
			return n, nil
		}
	case kindBool:
		if n, ok := raw.(int64); ok {
			return n != 0, nil
		}
	case kindTime:
		if n, ok := raw.(int64); ok {
			return formatInstant(time.Unix(0, n)), nil
		}
	}
	return nil, fmt.Errorf("stored %T value %v", raw, raw)
}

// bind turns a comparable value back into a query argument.
func (k columnKind) bind(v interface{}) interface{} {
	switch k {
	case kindBool:
		if b, _ := v.(bool); b {
			return 1
		}
		return 0
	case kindTime:
		t, _ := time.Parse(time.RFC3339Nano, v.(string))
		return t.UnixNano()
	}
	return v
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// AssertionError describes a failed assertion. Trace is set for trace
// assertions and printed after the mismatch.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: expected %s, got %s", e.Type, e.Expected, e.Actual)
	if len(e.Trace) > 0 {
		b.WriteString("\ninvocations:")
		for i, ev := range e.Trace {
			if ev.Type == EventInvocation {
				fmt.Fprintf(&b, "\n  [%d] %s @%s %v", i+1, ev.Action, ev.At, ev.Args)
			}
		}
	}
	return b.String()
}

// invocation is an invocation trace event with its 1-based trace position.
type invocation struct {
	pos  int
	args map[string]interface{}
}

func invocationsOf(trace []TraceEvent, action string) []invocation {
	var out []invocation
	for i, ev := range trace {
		if ev.Type == EventInvocation && ev.Action == action {
			out = append(out, invocation{pos: i + 1, args: ev.Args})
		}
	}
	return out
}

func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, inv := range invocationsOf(trace, a.Action) {
		if matchArgs(inv.args, a.Args) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("%s with args %v", a.Action, a.Args),
		Actual:   "no matching invocation",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the first occurrence of each action comes
// after the first occurrence of the one before it. Other actions may sit in
// between.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	prev, prevPos := "", 0
	for _, action := range a.Actions {
		invs := invocationsOf(trace, action)
		if len(invs) == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("actions %v", a.Actions),
				Actual:   "missing action: " + action,
				Trace:    trace,
			}
		}
		pos := invs[0].pos
		if prev != "" && pos <= prevPos {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("actions in order %v", a.Actions),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, prevPos, action, pos),
				Trace: trace,
			}
		}
		prev, prevPos = action, pos
	}
	return nil
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	if n := len(invocationsOf(trace, a.Action)); n != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Action),
			Actual:   fmt.Sprintf("%d occurrences", n),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState checks that exactly one row of a.Table matches a.Where and
// that it holds the a.Expect values. Columns not named in Expect are ignored.
func assertFinalState(ctx context.Context, st *store.Store, a Assertion) error {
	columns, ok := stateTables[a.Table]
	if !ok {
		return fmt.Errorf("final_state: unknown table %q", a.Table)
	}

	var conds []string
	var args []interface{}
	for _, col := range sortedKeys(a.Where) {
		kind, ok := columns[col]
		if !ok {
			return fmt.Errorf("final_state: %s has no column %q", a.Table, col)
		}
		v, err := kind.fromScenario(a.Where[col])
		if err != nil {
			return fmt.Errorf("final_state: where %s.%s: %w", a.Table, col, err)
		}
		if v == nil {
			conds = append(conds, col+" IS NULL")
			continue
		}
		conds = append(conds, col+" = ?")
		args = append(args, kind.bind(v))
	}

	selected := sortedKeys(a.Expect)
	want := make([]interface{}, len(selected))
	for i, col := range selected {
		kind, ok := columns[col]
		if !ok {
			return fmt.Errorf("final_state: %s has no column %q", a.Table, col)
		}
		v, err := kind.fromScenario(a.Expect[col])
		if err != nil {
			return fmt.Errorf("final_state: expect %s.%s: %w", a.Table, col, err)
		}
		want[i] = v
	}

	query := "SELECT " + strings.Join(selected, ", ") + " FROM " + a.Table
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " LIMIT 2"

	rows, err := st.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("final_state: query %s: %w", a.Table, err)
	}
	defer rows.Close()

	target := fmt.Sprintf("one row in %s where %s", a.Table, describeWhere(a.Where))
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("final_state: query %s: %w", a.Table, err)
		}
		return &AssertionError{Type: AssertFinalState, Expected: target, Actual: "row not found"}
	}

	raw := make([]interface{}, len(selected))
	dest := make([]interface{}, len(selected))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return fmt.Errorf("final_state: scan %s: %w", a.Table, err)
	}
	if rows.Next() {
		return &AssertionError{Type: AssertFinalState, Expected: target, Actual: "multiple rows matched"}
	}

	for i, col := range selected {
		got, err := columns[col].fromStore(raw[i])
		if err != nil {
			return fmt.Errorf("final_state: %s.%s: %w", a.Table, col, err)
		}
		if got != want[i] {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s.%s = %s", a.Table, col, showValue(want[i])),
				Actual:   showValue(got),
			}
		}
	}
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func describeWhere(where map[string]interface{}) string {
	if len(where) == 0 {
		return "(any)"
	}
	parts := make([]string, 0, len(where))
	for _, k := range sortedKeys(where) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

func showValue(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

// matchArgs reports whether every key of want is present in got with the
// same value. Extra keys in got are ignored.
func matchArgs(got interface{}, want map[string]interface{}) bool {
	if len(want) == 0 {
		return true
	}
	m, ok := got.(map[string]interface{})
	if !ok {
		return false
	}
	for k, w := range want {
		g, ok := m[k]
		if !ok || !sameValue(g, w) {
			return false
		}
	}
	return true
}

// sameValue compares a journal output value with a YAML value. Integers of
// any width are equal when they hold the same number.
func sameValue(got, want interface{}) bool {
	if g, ok := asInt(got); ok {
		w, ok := asInt(want)
		return ok && g == w
	}
	return reflect.DeepEqual(got, want)
}

func asInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	}
	return 0, false
}

// AssertionContext provides the store that final_state assertions read.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions runs every assertion against result and returns one
// message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertFinalState:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: final_state requires database context", i)
			} else {
				err = assertFinalState(actx.Ctx, actx.Store, a)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}
