package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/syncgo/internal/catalog"
	"github.com/roach88/syncgo/internal/model"
)

// Trends page limits.
const (
	TrendingTagLimit  = 30
	RecentSharedLimit = 10
)

// ErrEventHidden is returned when a user reacts to another user's private
// event. Callers should treat it like a missing event.
var ErrEventHidden = errors.New("event not visible")

// FeedItem is a shared event with its reaction summaries.
type FeedItem struct {
	Event     model.Event             `json:"event"`
	Reactions []model.ReactionSummary `json:"reactions"`
}

// Feed returns shared events, newest occurrence first, with reaction
// summaries from viewerID's perspective. limit <= 0 means no limit.
func (s *Service) Feed(ctx context.Context, viewerID, tag string, limit int) ([]FeedItem, error) {
	tag, err := normalizeFilter(tag)
	if err != nil {
		return nil, err
	}

	events, err := s.store.ListSharedEvents(ctx, tag, limit)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}

	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	summaries, err := s.store.ReactionSummaries(ctx, ids, viewerID)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}

	items := make([]FeedItem, len(events))
	for i, e := range events {
		items[i] = FeedItem{Event: e, Reactions: summaries[e.ID]}
	}
	return items, nil
}

// ReactionResult reports a toggle and the event's reactions afterwards.
type ReactionResult struct {
	EventID   string                  `json:"event_id"`
	Emoji     string                  `json:"emoji"`
	Added     bool                    `json:"added"`
	Reactions []model.ReactionSummary `json:"reactions"`
}

// ToggleReaction adds or removes userID's emoji reaction on an event.
// Only shared events, or the user's own, can be reacted to.
func (s *Service) ToggleReaction(ctx context.Context, userID, eventID, emoji string) (ReactionResult, error) {
	if !catalog.IsReactionEmoji(emoji) {
		return ReactionResult{}, invalid("emoji", "unsupported reaction %q", emoji)
	}

	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return ReactionResult{}, fmt.Errorf("react: %w", err)
	}
	if event.Visibility != model.VisibilityShared && event.UserID != userID {
		return ReactionResult{}, fmt.Errorf("react: event %s: %w", eventID, ErrEventHidden)
	}

	added, err := s.store.ToggleReaction(ctx, eventID, userID, emoji, s.now())
	if err != nil {
		return ReactionResult{}, fmt.Errorf("react: %w", err)
	}

	summaries, err := s.store.ReactionSummaries(ctx, []string{eventID}, userID)
	if err != nil {
		return ReactionResult{}, fmt.Errorf("react: %w", err)
	}

	s.logger.Debug("reaction toggled", "user", userID, "event", eventID, "emoji", emoji, "added", added)
	return ReactionResult{
		EventID:   eventID,
		Emoji:     emoji,
		Added:     added,
		Reactions: summaries[eventID],
	}, nil
}

// TrendsReport is the community trends page.
type TrendsReport struct {
	Tags   []model.TagTrend     `json:"tags"`
	Recent []model.Event        `json:"recent"`
	Stats  model.CommunityStats `json:"stats"`
}

// Trends aggregates tag usage, the latest shared events and community totals.
func (s *Service) Trends(ctx context.Context) (TrendsReport, error) {
	tags, err := s.store.TagTrends(ctx, TrendingTagLimit)
	if err != nil {
		return TrendsReport{}, fmt.Errorf("trends: %w", err)
	}
	recent, err := s.store.ListRecentShared(ctx, RecentSharedLimit)
	if err != nil {
		return TrendsReport{}, fmt.Errorf("trends: %w", err)
	}
	stats, err := s.store.CommunityStats(ctx)
	if err != nil {
		return TrendsReport{}, fmt.Errorf("trends: %w", err)
	}
	return TrendsReport{Tags: tags, Recent: recent, Stats: stats}, nil
}

// MapEntries returns events with a location that viewerID can see.
func (s *Service) MapEntries(ctx context.Context, viewerID string) ([]model.Event, error) {
	events, err := s.store.ListLocatedEvents(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("map: %w", err)
	}
	return events, nil
}

// normalizeFilter normalizes an optional tag filter.
func normalizeFilter(tag string) (string, error) {
	if tag == "" {
		return "", nil
	}
	t, err := catalog.NormalizeTag(tag)
	if err != nil {
		return "", invalid("tag", "%v", err)
	}
	return t, nil
}
