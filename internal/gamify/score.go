package gamify

import (
	"fmt"
	"time"

	"github.com/roach88/syncgo/internal/model"
)

// Reason fragments. Suffixes are appended in rule order.
const (
	reasonDailyLog         = "Daily synchronicity log"
	reasonSpecialTimeFmt   = "Special timing: %d:%02d"
	reasonDivineTagSuffix  = " + divine hashtag"
	reasonFirstShareSuffix = " + first shared synchronicity!"
	reasonMilestoneFmt     = "%d-day logging streak!"
)

// Award is a point grant and the human-readable reason for it.
type Award struct {
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

// ScoreInput describes one submission.
type ScoreInput struct {
	// OccurredAt must already be in the user's time zone; only its
	// hour and minute are inspected.
	OccurredAt time.Time
	Tags       []string
	Visibility model.Visibility
	// PriorSharedCount is the number of shared events the user had before
	// this one.
	PriorSharedCount int
}

// Score evaluates the point award for a single submission.
//
// The base award is replaced (not increased) by the special-time award, then
// the divine-tag and first-share bonuses are added on top.
func (r Rules) Score(in ScoreInput) Award {
	award := Award{Points: r.BasePoints, Reason: reasonDailyLog}

	if ct, ok := r.SpecialTime(in.OccurredAt); ok {
		award.Points = r.SpecialTimePoints
		award.Reason = fmt.Sprintf(reasonSpecialTimeFmt, ct.Hour, ct.Minute)
	}

	if r.HasDivineTag(in.Tags) {
		award.Points += r.DivineTagPoints
		award.Reason += reasonDivineTagSuffix
	}

	if in.Visibility == model.VisibilityShared && in.PriorSharedCount == 0 {
		award.Points += r.FirstSharePoints
		award.Reason += reasonFirstShareSuffix
	}

	return award
}

// SpecialTime returns the matching special clock time for t, if any.
func (r Rules) SpecialTime(t time.Time) (ClockTime, bool) {
	h, m := t.Hour(), t.Minute()
	for _, ct := range r.SpecialTimes {
		if ct.Hour == h && ct.Minute == m {
			return ct, true
		}
	}
	return ClockTime{}, false
}

// HasDivineTag reports whether any of tags is in the divine set.
func (r Rules) HasDivineTag(tags []string) bool {
	for _, tag := range tags {
		for _, d := range r.DivineTags {
			if tag == d {
				return true
			}
		}
	}
	return false
}

// MilestoneAward is granted when a streak reaches StreakMilestoneDays.
func (r Rules) MilestoneAward() Award {
	return Award{
		Points: r.StreakMilestonePoints,
		Reason: fmt.Sprintf(reasonMilestoneFmt, r.StreakMilestoneDays),
	}
}
