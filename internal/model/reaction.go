package model

import "time"

// Reaction is one user's emoji on a shared event. At most one exists per
// (event, user, emoji).
type Reaction struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// ReactionSummary aggregates one emoji on one event from a viewer's perspective.
type ReactionSummary struct {
	Emoji       string `json:"emoji"`
	Count       int    `json:"count"`
	UserReacted bool   `json:"user_reacted"`
}

// TagTrend is community-wide usage of one tag across shared events.
type TagTrend struct {
	Tag         string    `json:"tag"`
	UsageCount  int       `json:"usage_count"`
	UniqueUsers int       `json:"unique_users"`
	LastUsed    time.Time `json:"last_used"`
}

// CommunityStats counts shared activity.
type CommunityStats struct {
	SharedEvents int `json:"shared_events"`
	SharingUsers int `json:"sharing_users"`
}
