package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/syncgo/internal/model"
)

const eventColumns = `id, user_id, title, description, location, occurred_at, category,
	photo_url, visibility, display_name, created_at`

// CreateEvent inserts an event and its tags in one transaction.
// The owning profile must exist (foreign key constraint).
func (s *Store) CreateEvent(ctx context.Context, e model.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create event: begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events
		(id, user_id, title, description, location, occurred_at, category, photo_url, visibility, display_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		e.UserID,
		e.Title,
		e.Description,
		nullString(e.Location),
		toNanos(e.OccurredAt),
		nullString(e.Category),
		nullString(e.PhotoURL),
		string(e.Visibility),
		nullString(e.DisplayName),
		toNanos(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	for i, tag := range e.Tags {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO event_tags (event_id, position, tag)
			VALUES (?, ?, ?)
		`, e.ID, i, tag)
		if err != nil {
			return fmt.Errorf("create event: tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create event: commit: %w", err)
	}
	return nil
}

// GetEvent retrieves a single event by id.
// Returns ErrNotFound if no such event exists.
func (s *Store) GetEvent(ctx context.Context, id string) (model.Event, error) {
	events, err := s.selectEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	if err != nil {
		return model.Event{}, err
	}
	if len(events) == 0 {
		return model.Event{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return events[0], nil
}

// CountPriorSharedEvents counts a user's shared events other than
// excludeEventID (the event currently being scored).
func (s *Store) CountPriorSharedEvents(ctx context.Context, userID, excludeEventID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM events
		WHERE user_id = ? AND visibility = 'shared' AND id != ?
	`, userID, excludeEventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count shared events: %w", err)
	}
	return count, nil
}

// CountEvents returns how many events a user has logged and how many of
// them are shared.
func (s *Store) CountEvents(ctx context.Context, userID string) (model.EventCounts, error) {
	var c model.EventCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(visibility = 'shared'), 0)
		FROM events
		WHERE user_id = ?
	`, userID).Scan(&c.Total, &c.Shared)
	if err != nil {
		return model.EventCounts{}, fmt.Errorf("count events: %w", err)
	}
	return c, nil
}

// ListUserEvents returns a user's events, most recent occurrence first.
// A non-empty tag restricts results to events carrying it.
func (s *Store) ListUserEvents(ctx context.Context, userID, tag string) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id = ?`
	args := []any{userID}
	if tag != "" {
		query += ` AND id IN (SELECT event_id FROM event_tags WHERE tag = ?)`
		args = append(args, tag)
	}
	query += ` ORDER BY occurred_at DESC, id COLLATE BINARY ASC`

	return s.selectEvents(ctx, query, args...)
}

// ListSharedEvents returns community events, most recent occurrence first.
// A non-empty tag filters by tag; limit <= 0 means no limit.
func (s *Store) ListSharedEvents(ctx context.Context, tag string, limit int) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE visibility = 'shared'`
	args := []any{}
	if tag != "" {
		query += ` AND id IN (SELECT event_id FROM event_tags WHERE tag = ?)`
		args = append(args, tag)
	}
	query += ` ORDER BY occurred_at DESC, id COLLATE BINARY ASC LIMIT ?`
	args = append(args, sqlLimit(limit))

	return s.selectEvents(ctx, query, args...)
}

// ListRecentShared returns the most recently posted shared events.
func (s *Store) ListRecentShared(ctx context.Context, limit int) ([]model.Event, error) {
	return s.selectEvents(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE visibility = 'shared'
		ORDER BY created_at DESC, id COLLATE BINARY ASC
		LIMIT ?
	`, sqlLimit(limit))
}

// ListLocatedEvents returns events with a location that viewerID may see:
// their own events plus everything shared.
func (s *Store) ListLocatedEvents(ctx context.Context, viewerID string) ([]model.Event, error) {
	return s.selectEvents(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE (user_id = ? OR visibility = 'shared')
		  AND location IS NOT NULL AND location != ''
		ORDER BY occurred_at DESC, id COLLATE BINARY ASC
	`, viewerID)
}

// selectEvents runs an event query and attaches tags.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) selectEvents(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	rows.Close()

	if err := s.attachTags(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

// attachTags loads tags for events, preserving tag order.
func (s *Store) attachTags(ctx context.Context, events []model.Event) error {
	index := make(map[string]int, len(events))
	ids := make([]string, len(events))
	for i, e := range events {
		index[e.ID] = i
		ids[i] = e.ID
	}

	for _, batch := range batches(ids, maxBatch) {
		if err := s.attachTagBatch(ctx, events, index, batch); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) attachTagBatch(ctx context.Context, events []model.Event, index map[string]int, ids []string) error {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, tag FROM event_tags
		WHERE event_id IN (`+placeholders(len(args))+`)
		ORDER BY event_id, position
	`, args...)
	if err != nil {
		return fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, tag string
		if err := rows.Scan(&eventID, &tag); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if i, ok := index[eventID]; ok {
			events[i].Tags = append(events[i].Tags, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate tags: %w", err)
	}
	return nil
}

func scanEvent(rows *sql.Rows) (model.Event, error) {
	var e model.Event
	var location, category, photo, displayName sql.NullString
	var visibility string
	var occurred, created int64

	if err := rows.Scan(
		&e.ID, &e.UserID, &e.Title, &e.Description, &location, &occurred, &category,
		&photo, &visibility, &displayName, &created,
	); err != nil {
		return model.Event{}, fmt.Errorf("scan event: %w", err)
	}

	v, err := model.ParseVisibility(visibility)
	if err != nil {
		return model.Event{}, fmt.Errorf("scan event %s: %w", e.ID, err)
	}

	e.Location = location.String
	e.Category = category.String
	e.PhotoURL = photo.String
	e.DisplayName = displayName.String
	e.Visibility = v
	e.OccurredAt = fromNanos(occurred)
	e.CreatedAt = fromNanos(created)
	return e, nil
}
