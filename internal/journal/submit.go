package journal

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/roach88/syncgo/internal/catalog"
	"github.com/roach88/syncgo/internal/gamify"
	"github.com/roach88/syncgo/internal/model"
)

// SubmitInput is one synchronicity as entered by the user.
type SubmitInput struct {
	UserID      string     `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	// Visibility is "private" or "shared". Empty uses the profile's
	// sharing preference.
	Visibility string `json:"visibility,omitempty"`
}

// SubmitResult reports what a submission stored and awarded.
type SubmitResult struct {
	Event     model.Event         `json:"event"`
	Award     gamify.Award        `json:"award"`
	Streak    gamify.StreakResult `json:"streak"`
	Milestone *gamify.Award       `json:"milestone,omitempty"`
	Profile   model.Profile       `json:"profile"`
}

// TotalPoints is everything the submission earned, milestone included.
func (r SubmitResult) TotalPoints() int {
	total := r.Award.Points
	if r.Milestone != nil {
		total += r.Milestone.Points
	}
	return total
}

// submission is a validated SubmitInput.
type submission struct {
	title, description, location string
	occurredAt                   *time.Time
	category                     string
	tags                         []string
	photoURL                     string
	visibility                   model.Visibility
}

// Submit logs a synchronicity and applies its points and streak.
//
// A missing occurrence time is replaced with the current moment. Errors after
// the event is created leave earlier writes in place.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	sub, err := validateSubmission(in)
	if err != nil {
		return SubmitResult{}, err
	}

	log := s.logger.With("user", in.UserID)

	profile, err := s.store.GetProfile(ctx, in.UserID)
	if err != nil {
		log.Error("submit: load profile", "error", err)
		return SubmitResult{}, fmt.Errorf("submit: %w", err)
	}

	now := s.now()
	occurredAt := now
	if sub.occurredAt != nil {
		occurredAt = sub.occurredAt.In(s.loc)
	}
	if sub.visibility == "" {
		sub.visibility = profile.DefaultVisibility()
	}

	event := model.Event{
		ID:          s.ids.Generate(),
		UserID:      in.UserID,
		Title:       sub.title,
		Description: sub.description,
		Location:    sub.location,
		OccurredAt:  occurredAt,
		Category:    sub.category,
		Tags:        sub.tags,
		PhotoURL:    sub.photoURL,
		Visibility:  sub.visibility,
		CreatedAt:   now,
	}
	if event.Visibility == model.VisibilityShared {
		event.DisplayName = profile.DisplayName
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		log.Error("submit: create event", "error", err)
		return SubmitResult{}, fmt.Errorf("submit: %w", err)
	}
	log.Debug("event created", "event", event.ID, "visibility", event.Visibility)

	prior := 0
	if event.Visibility == model.VisibilityShared {
		prior, err = s.store.CountPriorSharedEvents(ctx, in.UserID, event.ID)
		if err != nil {
			log.Error("submit: count shared events", "event", event.ID, "error", err)
			return SubmitResult{}, fmt.Errorf("submit: %w", err)
		}
	}

	award := s.rules.Score(gamify.ScoreInput{
		OccurredAt:       occurredAt,
		Tags:             event.Tags,
		Visibility:       event.Visibility,
		PriorSharedCount: prior,
	})
	log.Debug("scored", "event", event.ID, "points", award.Points, "reason", award.Reason)

	profile, err = s.store.ApplyProfileDelta(ctx, in.UserID, model.ProfileDelta{
		PointsDelta: award.Points,
		Reason:      award.Reason,
	}, now)
	if err != nil {
		log.Error("submit: apply points", "event", event.ID, "error", err)
		return SubmitResult{}, fmt.Errorf("submit: apply points: %w", err)
	}

	streak := s.rules.AdvanceStreak(profile.StreakDays, profile.LastLogDate, model.DateOf(now))
	delta := model.ProfileDelta{
		Streak: &model.StreakUpdate{Days: streak.Days, LastLogDate: streak.LastLogDate},
	}
	var milestone *gamify.Award
	if streak.Milestone {
		m := s.rules.MilestoneAward()
		milestone = &m
		delta.PointsDelta = m.Points
		delta.Reason = m.Reason
	}

	profile, err = s.store.ApplyProfileDelta(ctx, in.UserID, delta, now)
	if err != nil {
		log.Error("submit: apply streak", "event", event.ID, "error", err)
		return SubmitResult{}, fmt.Errorf("submit: apply streak: %w", err)
	}
	log.Debug("streak applied", "days", streak.Days, "milestone", streak.Milestone)

	log.Info("synchronicity logged",
		"event", event.ID,
		"points", award.Points,
		"streak", profile.StreakDays,
		"total", profile.Points,
	)

	return SubmitResult{
		Event:     event,
		Award:     award,
		Streak:    streak,
		Milestone: milestone,
		Profile:   profile,
	}, nil
}

func validateSubmission(in SubmitInput) (submission, error) {
	sub := submission{
		title:       strings.TrimSpace(in.Title),
		description: strings.TrimSpace(in.Description),
		location:    strings.TrimSpace(in.Location),
		occurredAt:  in.OccurredAt,
		category:    strings.TrimSpace(in.Category),
		photoURL:    strings.TrimSpace(in.PhotoURL),
	}

	if strings.TrimSpace(in.UserID) == "" {
		return submission{}, invalid("user", "user id is required")
	}
	if sub.title == "" {
		return submission{}, invalid("title", "title is required")
	}
	if sub.description == "" {
		return submission{}, invalid("description", "description is required")
	}
	if sub.category != "" && !catalog.IsCategory(sub.category) {
		return submission{}, invalid("category", "unknown category %q", sub.category)
	}

	if in.Visibility != "" {
		v, err := model.ParseVisibility(in.Visibility)
		if err != nil {
			return submission{}, invalid("visibility", "%v", err)
		}
		sub.visibility = v
	}

	tags, err := catalog.NormalizeTags(in.Tags)
	if err != nil {
		return submission{}, invalid("tags", "%v", err)
	}
	sub.tags = tags

	if sub.photoURL != "" {
		u, err := url.Parse(sub.photoURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return submission{}, invalid("photo_url", "must be an absolute http(s) URL")
		}
	}

	return sub, nil
}
