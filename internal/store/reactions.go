package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/syncgo/internal/catalog"
	"github.com/roach88/syncgo/internal/model"
)

// ToggleReaction adds the (event, user, emoji) reaction if absent and removes
// it if present. Returns true when the reaction was added.
// Returns ErrNotFound if the event does not exist.
func (s *Store) ToggleReaction(ctx context.Context, eventID, userID, emoji string, now time.Time) (added bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("toggle reaction: begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, eventID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("toggle reaction: event %s: %w", eventID, ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("toggle reaction: lookup event: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		DELETE FROM reactions
		WHERE event_id = ? AND user_id = ? AND emoji = ?
	`, eventID, userID, emoji)
	if err != nil {
		return false, fmt.Errorf("toggle reaction: delete: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("toggle reaction: rows affected: %w", err)
	}

	if removed == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reactions (event_id, user_id, emoji, created_at)
			VALUES (?, ?, ?, ?)
		`, eventID, userID, emoji, toNanos(now))
		if err != nil {
			return false, fmt.Errorf("toggle reaction: insert: %w", err)
		}
		added = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("toggle reaction: commit: %w", err)
	}
	return added, nil
}

// ReactionSummaries returns, for each event id, one summary per supported
// emoji in catalog order. UserReacted reflects viewerID.
func (s *Store) ReactionSummaries(ctx context.Context, eventIDs []string, viewerID string) (map[string][]model.ReactionSummary, error) {
	out := make(map[string][]model.ReactionSummary, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}

	found := make(map[reactionKey]reactionAgg)
	for _, batch := range batches(eventIDs, maxBatch) {
		if err := s.countReactions(ctx, batch, viewerID, found); err != nil {
			return nil, err
		}
	}

	for _, id := range eventIDs {
		summaries := make([]model.ReactionSummary, 0, len(catalog.ReactionEmojis))
		for _, emoji := range catalog.ReactionEmojis {
			a := found[reactionKey{id, emoji}]
			summaries = append(summaries, model.ReactionSummary{
				Emoji:       emoji,
				Count:       a.count,
				UserReacted: a.reacted,
			})
		}
		out[id] = summaries
	}
	return out, nil
}

type reactionKey struct{ event, emoji string }

type reactionAgg struct {
	count   int
	reacted bool
}

// countReactions aggregates reactions per (event, emoji) for one batch of
// event ids into found.
func (s *Store) countReactions(ctx context.Context, eventIDs []string, viewerID string, found map[reactionKey]reactionAgg) error {
	args := make([]any, 0, len(eventIDs)+1)
	args = append(args, viewerID)
	for _, id := range eventIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, emoji, COUNT(*), MAX(user_id = ?)
		FROM reactions
		WHERE event_id IN (`+placeholders(len(eventIDs))+`)
		GROUP BY event_id, emoji
	`, args...)
	if err != nil {
		return fmt.Errorf("query reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, emoji string
		var count, reacted int
		if err := rows.Scan(&eventID, &emoji, &count, &reacted); err != nil {
			return fmt.Errorf("scan reaction: %w", err)
		}
		found[reactionKey{eventID, emoji}] = reactionAgg{count: count, reacted: reacted != 0}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate reactions: %w", err)
	}
	return nil
}
