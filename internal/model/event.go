package model

import (
	"fmt"
	"time"
)

// Visibility controls whether an event appears in the community feed.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityShared  Visibility = "shared"
)

// ParseVisibility validates s as one of the two visibility values.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPrivate, VisibilityShared:
		return Visibility(s), nil
	}
	return "", fmt.Errorf("visibility must be %q or %q, got %q", VisibilityPrivate, VisibilityShared, s)
}

// Event is one logged synchronicity. Events are never edited after creation.
type Event struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	Visibility  Visibility `json:"visibility"`
	// DisplayName is copied from the owner's profile for shared events so the
	// feed can render without a profile lookup.
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasTag reports whether the event carries tag.
func (e Event) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// EventCounts summarizes a user's logged events.
type EventCounts struct {
	Total  int `json:"total"`
	Shared int `json:"shared"`
}
