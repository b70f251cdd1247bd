// Package gamify computes point awards and logging streaks for submitted
// synchronicities.
//
// Everything here is a pure function of its inputs: callers fetch the current
// profile, ask Rules for an Award or StreakResult, and write the outcome back
// through the store. Nothing in this package logs, retries, or touches I/O
// apart from LoadRules.
//
// The rule tables (point values, the special clock times, the divine tags)
// live in rules.cue. The embedded file is the default; an override file is
// unified against the same #Rules schema so a typo or an out-of-range value
// is rejected at load time.
package gamify
