package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/syncgo/internal/model"
)

// toNanos converts a timestamp to its stored INTEGER form.
func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

// fromNanos converts a stored INTEGER timestamp back to UTC time.
func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// nullString stores empty optional text as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullDate stores a missing calendar date as NULL.
func nullDate(d *model.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

// scanDate parses a nullable YYYY-MM-DD column.
func scanDate(ns sql.NullString) (*model.Date, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	d, err := model.ParseDate(ns.String)
	if err != nil {
		return nil, fmt.Errorf("scan date: %w", err)
	}
	return &d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// maxBatch bounds the ids bound into a single IN list. SQLite rejects
// statements with more than 32766 host parameters.
const maxBatch = 500

// batches splits ids into consecutive runs of at most size ids.
func batches(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

// placeholders returns "?, ?, ?" with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
