package gamify

import "github.com/roach88/syncgo/internal/model"

// StreakResult is the streak state to persist after a submission.
type StreakResult struct {
	Days        int        `json:"days"`
	LastLogDate model.Date `json:"last_log_date"`
	// Milestone is true when this submission extended the streak to exactly
	// StreakMilestoneDays. The caller grants MilestoneAward.
	Milestone bool `json:"milestone"`
}

// AdvanceStreak computes the consecutive-day streak after logging on today.
//
//   - no previous log: streak starts at 1
//   - previous log yesterday: streak+1
//   - previous log today: unchanged
//   - gap of two or more days: reset to 1
//
// A previous log date after today (the user's clock or zone moved backwards)
// is treated like a same-day log and the stored date is kept, so the last log
// date never regresses.
func (r Rules) AdvanceStreak(prevDays int, lastLog *model.Date, today model.Date) StreakResult {
	if lastLog == nil {
		return StreakResult{Days: 1, LastLogDate: today}
	}

	diff := lastLog.DaysUntil(today)
	switch {
	case diff == 1:
		days := prevDays + 1
		return StreakResult{
			Days:        days,
			LastLogDate: today,
			Milestone:   days == r.StreakMilestoneDays,
		}
	case diff > 1:
		return StreakResult{Days: 1, LastLogDate: today}
	case diff == 0:
		return StreakResult{Days: prevDays, LastLogDate: today}
	default:
		return StreakResult{Days: prevDays, LastLogDate: *lastLog}
	}
}
