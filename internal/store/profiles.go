package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/syncgo/internal/model"
)

const profileColumns = `id, display_name, points, level, streak_days, last_log_date,
	share_by_default, created_at, updated_at`

// CreateProfile inserts a new profile. Level is derived from p.Points; the
// remaining gamification fields are stored as given (zero for a fresh signup).
// Returns ErrProfileExists if the id is taken.
func (s *Store) CreateProfile(ctx context.Context, p model.Profile) error {
	if p.Points < 0 || p.StreakDays < 0 {
		return fmt.Errorf("create profile: points and streak must be non-negative")
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles
		(id, display_name, points, level, streak_days, last_log_date, share_by_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		p.ID,
		p.DisplayName,
		p.Points,
		s.level(p.Points),
		p.StreakDays,
		nullDate(p.LastLogDate),
		boolToInt(p.ShareByDefault),
		toNanos(p.CreatedAt),
		toNanos(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create profile: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("create profile %s: %w", p.ID, ErrProfileExists)
	}
	return nil
}

// GetProfile retrieves a profile by id.
// Returns ErrNotFound if no such profile exists.
func (s *Store) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	return getProfile(ctx, s.db, id)
}

func getProfile(ctx context.Context, q queryer, id string) (model.Profile, error) {
	row := q.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)

	var p model.Profile
	var lastLog sql.NullString
	var share int
	var created, updated int64
	err := row.Scan(
		&p.ID, &p.DisplayName, &p.Points, &p.Level, &p.StreakDays, &lastLog,
		&share, &created, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("scan profile: %w", err)
	}

	p.LastLogDate, err = scanDate(lastLog)
	if err != nil {
		return model.Profile{}, err
	}
	p.ShareByDefault = share != 0
	p.CreatedAt = fromNanos(created)
	p.UpdatedAt = fromNanos(updated)
	return p, nil
}

// UpdateProfileSettings changes the user-editable profile fields.
// Returns ErrNotFound if no such profile exists.
func (s *Store) UpdateProfileSettings(ctx context.Context, id, displayName string, shareByDefault bool, now time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET display_name = ?, share_by_default = ?, updated_at = ?
		WHERE id = ?
	`, displayName, boolToInt(shareByDefault), toNanos(now), id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update profile %s: %w", id, ErrNotFound)
	}
	return nil
}

// ApplyProfileDelta applies points and streak changes to a profile in one
// transaction and returns the updated profile.
//
// Points are incremented in place and the level recomputed from the new total.
// A streak update overwrites streak_days; last_log_date is only moved forward.
// A positive PointsDelta is recorded in the award ledger with delta.Reason.
func (s *Store) ApplyProfileDelta(ctx context.Context, userID string, delta model.ProfileDelta, now time.Time) (model.Profile, error) {
	if delta.PointsDelta < 0 {
		return model.Profile{}, fmt.Errorf("apply profile delta: negative points delta %d", delta.PointsDelta)
	}
	if delta.Streak != nil && delta.Streak.Days < 0 {
		return model.Profile{}, fmt.Errorf("apply profile delta: negative streak %d", delta.Streak.Days)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Profile{}, fmt.Errorf("apply profile delta: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	p, err := getProfile(ctx, tx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("apply profile delta: %w", err)
	}

	p.Points += delta.PointsDelta
	p.Level = s.level(p.Points)
	if delta.Streak != nil {
		p.StreakDays = delta.Streak.Days
		next := delta.Streak.LastLogDate
		if p.LastLogDate == nil || !next.Before(*p.LastLogDate) {
			p.LastLogDate = &next
		}
	}
	p.UpdatedAt = now.UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE profiles
		SET points = points + ?, level = ?, streak_days = ?, last_log_date = ?, updated_at = ?
		WHERE id = ?
	`,
		delta.PointsDelta,
		p.Level,
		p.StreakDays,
		nullDate(p.LastLogDate),
		toNanos(now),
		userID,
	)
	if err != nil {
		return model.Profile{}, fmt.Errorf("apply profile delta: update: %w", err)
	}

	if delta.PointsDelta > 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO point_awards (user_id, points, reason, created_at)
			VALUES (?, ?, ?, ?)
		`, userID, delta.PointsDelta, delta.Reason, toNanos(now))
		if err != nil {
			return model.Profile{}, fmt.Errorf("apply profile delta: record award: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Profile{}, fmt.Errorf("apply profile delta: commit: %w", err)
	}

	return p, nil
}

// ListAwards returns a user's award ledger, oldest first.
func (s *Store) ListAwards(ctx context.Context, userID string) ([]model.PointAward, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, points, reason, created_at
		FROM point_awards
		WHERE user_id = ?
		ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query awards: %w", err)
	}
	defer rows.Close()

	awards := []model.PointAward{}
	for rows.Next() {
		var a model.PointAward
		var created int64
		if err := rows.Scan(&a.ID, &a.UserID, &a.Points, &a.Reason, &created); err != nil {
			return nil, fmt.Errorf("scan award: %w", err)
		}
		a.CreatedAt = fromNanos(created)
		awards = append(awards, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate awards: %w", err)
	}
	return awards, nil
}
