package store

import (
	"context"
	"fmt"

	"github.com/roach88/syncgo/internal/model"
)

// TagTrends aggregates tag usage across shared events, most used first.
// limit <= 0 means no limit.
func (s *Store) TagTrends(ctx context.Context, limit int) ([]model.TagTrend, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.tag, COUNT(*) AS usage_count, COUNT(DISTINCT e.user_id), MAX(e.created_at)
		FROM event_tags t
		JOIN events e ON e.id = t.event_id
		WHERE e.visibility = 'shared'
		GROUP BY t.tag
		ORDER BY usage_count DESC, t.tag COLLATE BINARY ASC
		LIMIT ?
	`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query tag trends: %w", err)
	}
	defer rows.Close()

	trends := []model.TagTrend{}
	for rows.Next() {
		var tr model.TagTrend
		var lastUsed int64
		if err := rows.Scan(&tr.Tag, &tr.UsageCount, &tr.UniqueUsers, &lastUsed); err != nil {
			return nil, fmt.Errorf("scan tag trend: %w", err)
		}
		tr.LastUsed = fromNanos(lastUsed)
		trends = append(trends, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag trends: %w", err)
	}
	return trends, nil
}

// CommunityStats counts shared events and the distinct users who shared them.
func (s *Store) CommunityStats(ctx context.Context) (model.CommunityStats, error) {
	var st model.CommunityStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT user_id)
		FROM events
		WHERE visibility = 'shared'
	`).Scan(&st.SharedEvents, &st.SharingUsers)
	if err != nil {
		return model.CommunityStats{}, fmt.Errorf("community stats: %w", err)
	}
	return st, nil
}
