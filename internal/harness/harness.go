package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/syncgo/internal/gamify"
	"github.com/roach88/syncgo/internal/journal"
	"github.com/roach88/syncgo/internal/model"
	"github.com/roach88/syncgo/internal/store"
	"github.com/roach88/syncgo/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and event ids.
type Harness struct {
	store   *store.Store
	journal *journal.Service
	clock   *testutil.DeterministicClock
	loc     *time.Location
	logger  *slog.Logger
	seq     int64
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Create fresh in-memory database and journal
// 2. Seed profiles
// 3. Execute flow steps with expect validation
// 4. Evaluate assertions against the trace and final state
func Run(scenario *Scenario) (*Result, error) {
	rules := gamify.DefaultRules()
	if scenario.Rules != "" {
		var err error
		rules, err = gamify.ParseRules([]byte(scenario.Rules))
		if err != nil {
			return nil, fmt.Errorf("scenario rules: %w", err)
		}
	}

	loc := time.UTC
	if scenario.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(scenario.Timezone)
		if err != nil {
			return nil, fmt.Errorf("scenario timezone: %w", err)
		}
	}

	start, err := time.Parse(time.RFC3339, scenario.Start)
	if err != nil {
		return nil, fmt.Errorf("scenario start: %w", err)
	}

	st, err := store.Open(":memory:", store.WithLevelRule(rules.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	clock := testutil.NewDeterministicClock(start)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	h := &Harness{
		store: st,
		journal: journal.New(st, rules,
			journal.WithClock(clock),
			journal.WithLocation(loc),
			journal.WithIDGenerator(testutil.NewSequentialIDGenerator("evt")),
			journal.WithLogger(logger),
		),
		clock:  clock,
		loc:    loc,
		logger: logger,
	}

	ctx := context.Background()

	if err := h.seedProfiles(ctx, scenario.Profiles, start); err != nil {
		return nil, fmt.Errorf("failed to seed profiles: %w", err)
	}

	result := NewResult()
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

func (h *Harness) seedProfiles(ctx context.Context, seeds []ProfileSeed, now time.Time) error {
	for _, seed := range seeds {
		p := model.Profile{
			ID:             seed.ID,
			DisplayName:    seed.DisplayName,
			Points:         seed.Points,
			StreakDays:     seed.StreakDays,
			ShareByDefault: seed.ShareByDefault,
			CreatedAt:      now,
		}
		if p.DisplayName == "" {
			p.DisplayName = seed.ID
		}
		if seed.LastLogDate != "" {
			d, err := model.ParseDate(seed.LastLogDate)
			if err != nil {
				return fmt.Errorf("profile %s: %w", seed.ID, err)
			}
			p.LastLogDate = &d
		}
		if err := h.store.CreateProfile(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// executeFlow runs all flow steps and validates expect clauses.
//
// A step without an expect clause must succeed. Mismatches are recorded on
// the result and do not stop the flow.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) error {
	for i, step := range flow {
		if err := h.moveClock(step); err != nil {
			return fmt.Errorf("flow step %d: %w", i, err)
		}

		h.seq++
		at := h.clock.Now().In(h.loc).Format(time.RFC3339)
		result.AddInvocationTrace(step.Action, at, step.Args, h.seq)

		outcome, out, err := h.invoke(ctx, step)
		if err != nil {
			return fmt.Errorf("flow step %d (%s): %w", i, step.Action, err)
		}

		h.seq++
		result.AddCompletionTrace(outcome, out, h.seq)

		expected := CaseOK
		if step.Expect != nil {
			expected = step.Expect.Case
		}
		if outcome != expected {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected case %q, got %q (result %v)",
				i, step.Action, expected, outcome, out))
			continue
		}
		if step.Expect != nil && !matchArgs(out, step.Expect.Result) {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected result %v, got %v",
				i, step.Action, step.Expect.Result, out))
		}

		h.logger.Info("flow step completed",
			"step", i,
			"action", step.Action,
			"case", outcome,
		)
	}
	return nil
}

func (h *Harness) moveClock(step FlowStep) error {
	switch {
	case step.At != "":
		t, err := time.Parse(time.RFC3339, step.At)
		if err != nil {
			return err
		}
		h.clock.Set(t)
	case step.Advance != "":
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return err
		}
		h.clock.Advance(d)
	}
	return nil
}

// invoke dispatches one step to the journal. The returned error is reserved
// for malformed steps; journal failures become an outcome case.
func (h *Harness) invoke(ctx context.Context, step FlowStep) (string, map[string]interface{}, error) {
	switch step.Action {
	case ActionSignup:
		var args struct {
			User        string `yaml:"user"`
			DisplayName string `yaml:"display_name"`
		}
		if err := decodeArgs(step.Args, &args); err != nil {
			return "", nil, err
		}
		p, err := h.journal.Signup(ctx, journal.SignupInput{UserID: args.User, DisplayName: args.DisplayName})
		if err != nil {
			return classify(err)
		}
		return CaseOK, map[string]interface{}{
			"user":   p.ID,
			"points": p.Points,
			"level":  p.Level,
		}, nil

	case ActionSubmit:
		var args struct {
			User        string   `yaml:"user"`
			Title       string   `yaml:"title"`
			Description string   `yaml:"description"`
			Location    string   `yaml:"location"`
			OccurredAt  string   `yaml:"occurred_at"`
			Category    string   `yaml:"category"`
			Tags        []string `yaml:"tags"`
			PhotoURL    string   `yaml:"photo_url"`
			Visibility  string   `yaml:"visibility"`
		}
		if err := decodeArgs(step.Args, &args); err != nil {
			return "", nil, err
		}
		in := journal.SubmitInput{
			UserID:      args.User,
			Title:       args.Title,
			Description: args.Description,
			Location:    args.Location,
			Category:    args.Category,
			Tags:        args.Tags,
			PhotoURL:    args.PhotoURL,
			Visibility:  args.Visibility,
		}
		if args.OccurredAt != "" {
			t, err := time.Parse(time.RFC3339, args.OccurredAt)
			if err != nil {
				return "", nil, fmt.Errorf("occurred_at: %w", err)
			}
			in.OccurredAt = &t
		}
		res, err := h.journal.Submit(ctx, in)
		if err != nil {
			return classify(err)
		}
		milestonePoints := 0
		if res.Milestone != nil {
			milestonePoints = res.Milestone.Points
		}
		return CaseOK, map[string]interface{}{
			"event_id":         res.Event.ID,
			"points":           res.Award.Points,
			"reason":           res.Award.Reason,
			"streak_days":      res.Profile.StreakDays,
			"milestone":        res.Milestone != nil,
			"milestone_points": milestonePoints,
			"total_points":     res.Profile.Points,
			"level":            res.Profile.Level,
		}, nil

	case ActionReact:
		var args struct {
			User  string `yaml:"user"`
			Event string `yaml:"event"`
			Emoji string `yaml:"emoji"`
		}
		if err := decodeArgs(step.Args, &args); err != nil {
			return "", nil, err
		}
		res, err := h.journal.ToggleReaction(ctx, args.User, args.Event, args.Emoji)
		if err != nil {
			return classify(err)
		}
		count := 0
		for _, r := range res.Reactions {
			if r.Emoji == args.Emoji {
				count = r.Count
			}
		}
		return CaseOK, map[string]interface{}{
			"added": res.Added,
			"count": count,
		}, nil

	case ActionUpdateProfile:
		var args struct {
			User           string  `yaml:"user"`
			DisplayName    *string `yaml:"display_name"`
			ShareByDefault *bool   `yaml:"share_by_default"`
		}
		if err := decodeArgs(step.Args, &args); err != nil {
			return "", nil, err
		}
		p, err := h.journal.UpdateProfile(ctx, args.User, journal.ProfileUpdate{
			DisplayName:    args.DisplayName,
			ShareByDefault: args.ShareByDefault,
		})
		if err != nil {
			return classify(err)
		}
		return CaseOK, map[string]interface{}{
			"display_name":     p.DisplayName,
			"share_by_default": p.ShareByDefault,
		}, nil
	}

	return "", nil, fmt.Errorf("unknown action %q", step.Action)
}

// classify maps a journal error to an outcome case.
func classify(err error) (string, map[string]interface{}, error) {
	var ve *journal.ValidationError
	switch {
	case errors.As(err, &ve):
		return CaseInvalid, map[string]interface{}{"field": ve.Field}, nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, journal.ErrEventHidden):
		return CaseNotFound, nil, nil
	default:
		return CaseError, map[string]interface{}{"error": err.Error()}, nil
	}
}

// decodeArgs converts YAML-parsed args into a typed struct, rejecting
// unknown keys.
func decodeArgs(args map[string]interface{}, out interface{}) error {
	data, err := yaml.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode args: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	return nil
}
