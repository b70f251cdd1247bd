package gamify

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed rules.cue
var rulesCUE string

// ClockTime is an hour:minute pair on a 24-hour clock.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Rules holds every constant the scoring and streak logic depends on.
type Rules struct {
	BasePoints            int         `json:"base_points"`
	SpecialTimePoints     int         `json:"special_time_points"`
	DivineTagPoints       int         `json:"divine_tag_points"`
	FirstSharePoints      int         `json:"first_share_points"`
	StreakMilestoneDays   int         `json:"streak_milestone_days"`
	StreakMilestonePoints int         `json:"streak_milestone_points"`
	PointsPerLevel        int         `json:"points_per_level"`
	SpecialTimes          []ClockTime `json:"special_times"`
	DivineTags            []string    `json:"divine_tags"`
}

// DefaultRules returns the built-in rule tables.
// Panics if the embedded rules.cue does not decode, which is a build defect.
func DefaultRules() Rules {
	r, err := ParseRules(nil)
	if err != nil {
		panic(fmt.Sprintf("gamify: embedded rules invalid: %v", err))
	}
	return r
}

// LoadRules reads a CUE override file and unifies it with the defaults.
// Fields omitted from the file keep their default values.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	r, err := ParseRules(data)
	if err != nil {
		return Rules{}, fmt.Errorf("load rules %s: %w", path, err)
	}
	return r, nil
}

// ParseRules unifies override (CUE source, may be nil) with the #Rules schema
// and decodes the result.
func ParseRules(override []byte) (Rules, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(rulesCUE, cue.Filename("rules.cue"))
	if err := schema.Err(); err != nil {
		return Rules{}, fmt.Errorf("compile schema: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("rules"))
	if override != nil {
		user := ctx.CompileBytes(override, cue.Filename("rules override"))
		if err := user.Err(); err != nil {
			return Rules{}, fmt.Errorf("compile override: %w", err)
		}
		v = v.Unify(user)
	}

	if err := v.Validate(); err != nil {
		return Rules{}, fmt.Errorf("validate rules: %w", err)
	}

	var r Rules
	if err := v.Decode(&r); err != nil {
		return Rules{}, fmt.Errorf("decode rules: %w", err)
	}
	return r, nil
}

// Level derives the level for a cumulative point total. Level 1 starts at
// zero points and each PointsPerLevel points adds one level.
func (r Rules) Level(points int) int {
	if points < 0 {
		points = 0
	}
	return points/r.PointsPerLevel + 1
}
