package model

import "time"

// Profile is a user's public identity and gamification state.
//
// Points never go negative, LastLogDate never moves backwards, and Level is
// always derived from Points by the store.
type Profile struct {
	ID             string    `json:"id"`
	DisplayName    string    `json:"display_name"`
	Points         int       `json:"points"`
	Level          int       `json:"level"`
	StreakDays     int       `json:"streak_days"`
	LastLogDate    *Date     `json:"last_log_date,omitempty"`
	ShareByDefault bool      `json:"share_by_default"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DefaultVisibility is the visibility applied when a submission leaves it blank.
func (p Profile) DefaultVisibility() Visibility {
	if p.ShareByDefault {
		return VisibilityShared
	}
	return VisibilityPrivate
}

// StreakUpdate replaces the streak counter and the last log date.
type StreakUpdate struct {
	Days        int  `json:"days"`
	LastLogDate Date `json:"last_log_date"`
}

// ProfileDelta is a single change applied atomically to a stored profile.
type ProfileDelta struct {
	// PointsDelta is added to the cumulative total. Must be >= 0.
	PointsDelta int
	// Reason is recorded in the award ledger when PointsDelta > 0.
	Reason string
	// Streak, when set, overwrites streak_days and last_log_date.
	Streak *StreakUpdate
}

// PointAward is one row of the award ledger.
type PointAward struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
