package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/syncgo/internal/insights"
	"github.com/roach88/syncgo/internal/model"
)

// SignupInput creates a profile for an already-authenticated identity.
type SignupInput struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// Signup creates a fresh profile: zero points, level 1, no streak, and
// sharing off by default.
func (s *Service) Signup(ctx context.Context, in SignupInput) (model.Profile, error) {
	id := strings.TrimSpace(in.UserID)
	name := strings.TrimSpace(in.DisplayName)
	if id == "" {
		return model.Profile{}, invalid("user", "user id is required")
	}
	if name == "" {
		return model.Profile{}, invalid("display_name", "display name is required")
	}

	err := s.store.CreateProfile(ctx, model.Profile{
		ID:          id,
		DisplayName: name,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return model.Profile{}, fmt.Errorf("signup: %w", err)
	}
	s.logger.Info("profile created", "user", id)

	return s.store.GetProfile(ctx, id)
}

// ProfileView is a profile with its event counts.
type ProfileView struct {
	Profile model.Profile     `json:"profile"`
	Counts  model.EventCounts `json:"counts"`
}

// Profile returns a user's profile and how many events they have logged.
func (s *Service) Profile(ctx context.Context, userID string) (ProfileView, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return ProfileView{}, fmt.Errorf("profile: %w", err)
	}
	counts, err := s.store.CountEvents(ctx, userID)
	if err != nil {
		return ProfileView{}, fmt.Errorf("profile: %w", err)
	}
	return ProfileView{Profile: p, Counts: counts}, nil
}

// ProfileUpdate changes user-editable settings. Nil fields are left as is.
type ProfileUpdate struct {
	DisplayName    *string `json:"display_name,omitempty"`
	ShareByDefault *bool   `json:"share_by_default,omitempty"`
}

// UpdateProfile applies settings changes and returns the updated profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (model.Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}

	if upd.DisplayName != nil {
		name := strings.TrimSpace(*upd.DisplayName)
		if name == "" {
			return model.Profile{}, invalid("display_name", "display name cannot be empty")
		}
		p.DisplayName = name
	}
	if upd.ShareByDefault != nil {
		p.ShareByDefault = *upd.ShareByDefault
	}

	if err := s.store.UpdateProfileSettings(ctx, userID, p.DisplayName, p.ShareByDefault, s.now()); err != nil {
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return s.store.GetProfile(ctx, userID)
}

// Awards returns the user's point ledger, oldest first.
func (s *Service) Awards(ctx context.Context, userID string) ([]model.PointAward, error) {
	awards, err := s.store.ListAwards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("awards: %w", err)
	}
	return awards, nil
}

// Entries lists a user's own events, newest first, optionally filtered by tag.
func (s *Service) Entries(ctx context.Context, userID, tag string) ([]model.Event, error) {
	tag, err := normalizeFilter(tag)
	if err != nil {
		return nil, err
	}
	events, err := s.store.ListUserEvents(ctx, userID, tag)
	if err != nil {
		return nil, fmt.Errorf("entries: %w", err)
	}
	return events, nil
}

// Patterns summarizes a user's most used tags, repeated titles and tags
// outside the catalog. A non-empty tag narrows the summary to entries
// carrying it.
func (s *Service) Patterns(ctx context.Context, userID, tag string) (insights.Patterns, error) {
	tag, err := normalizeFilter(tag)
	if err != nil {
		return insights.Patterns{}, err
	}
	events, err := s.store.ListUserEvents(ctx, userID, "")
	if err != nil {
		return insights.Patterns{}, fmt.Errorf("patterns: %w", err)
	}
	return insights.Summarize(insights.FilterByTag(events, tag)), nil
}
