package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/syncgo/internal/model"
)

// Scenario defines a gamification test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Start is the initial clock reading (RFC 3339).
	Start string `yaml:"start"`

	// Timezone is the IANA zone the journal scores in. Defaults to UTC.
	Timezone string `yaml:"timezone,omitempty"`

	// Rules is optional CUE source overriding the default rule tables.
	Rules string `yaml:"rules,omitempty"`

	// Profiles are inserted directly into the store before the flow.
	Profiles []ProfileSeed `yaml:"profiles,omitempty"`

	// Flow contains the actions to run, in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and state.
	// Supported types: trace_contains, trace_order, trace_count, final_state
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ProfileSeed is a profile in an arbitrary starting state.
type ProfileSeed struct {
	ID             string `yaml:"id"`
	DisplayName    string `yaml:"display_name"`
	Points         int    `yaml:"points"`
	StreakDays     int    `yaml:"streak_days"`
	LastLogDate    string `yaml:"last_log_date,omitempty"`
	ShareByDefault bool   `yaml:"share_by_default"`
}

// FlowStep is one action against the journal.
type FlowStep struct {
	// Action is one of the Action* constants.
	Action string `yaml:"action"`

	// At sets the clock before the action runs (RFC 3339).
	At string `yaml:"at,omitempty"`

	// Advance moves the clock forward before the action runs ("24h").
	Advance string `yaml:"advance,omitempty"`

	// Args contains the action arguments.
	Args map[string]interface{} `yaml:"args"`

	// Expect specifies the expected outcome.
	// If nil, the step must succeed but its result is not checked.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected step behavior.
type ExpectClause struct {
	// Case is the expected outcome (ok, invalid, not_found, error).
	Case string `yaml:"case"`

	// Result contains expected result field values.
	// This is a subset match - only specified fields are validated.
	Result map[string]interface{} `yaml:"result,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": Check action appears in trace with args
	// - "trace_order": Check actions appear in order
	// - "trace_count": Check action appears exactly N times
	// - "final_state": Query table and verify expected values
	Type string `yaml:"type"`

	// Action is the action name (used by trace_contains, trace_count).
	Action string `yaml:"action,omitempty"`

	// Args are the expected action arguments (used by trace_contains).
	// Subset match - only specified fields are validated.
	Args map[string]interface{} `yaml:"args,omitempty"`

	// Table is the table name (used by final_state).
	Table string `yaml:"table,omitempty"`

	// Where specifies query filters (used by final_state).
	// All fields must match exactly.
	Where map[string]interface{} `yaml:"where,omitempty"`

	// Expect contains expected column values (used by final_state).
	// Subset match - only specified fields are validated.
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Count is the expected number of occurrences (used by trace_count).
	Count int `yaml:"count,omitempty"`

	// Actions is the expected action order (used by trace_order).
	Actions []string `yaml:"actions,omitempty"`
}

// Action names.
const (
	ActionSignup        = "signup"
	ActionSubmit        = "submit"
	ActionReact         = "react"
	ActionUpdateProfile = "update_profile"
)

// Outcome cases.
const (
	CaseOK       = "ok"
	CaseInvalid  = "invalid"
	CaseNotFound = "not_found"
	CaseError    = "error"
)

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Start == "" {
		return fmt.Errorf("start is required")
	}
	if _, err := time.Parse(time.RFC3339, s.Start); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	seen := make(map[string]bool)
	for i, p := range s.Profiles {
		if p.ID == "" {
			return fmt.Errorf("profiles[%d]: id is required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("profiles[%d]: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
		if p.Points < 0 || p.StreakDays < 0 {
			return fmt.Errorf("profiles[%d]: points and streak_days must be non-negative", i)
		}
		if p.LastLogDate != "" {
			if _, err := model.ParseDate(p.LastLogDate); err != nil {
				return fmt.Errorf("profiles[%d].last_log_date: %w", i, err)
			}
		}
	}

	for i, step := range s.Flow {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, step *FlowStep) error {
	switch step.Action {
	case ActionSignup, ActionSubmit, ActionReact, ActionUpdateProfile:
	case "":
		return fmt.Errorf("flow[%d]: action is required", index)
	default:
		return fmt.Errorf("flow[%d]: unknown action %q", index, step.Action)
	}

	if step.Args == nil {
		return fmt.Errorf("flow[%d]: args is required (use empty map if no args)", index)
	}

	if step.At != "" && step.Advance != "" {
		return fmt.Errorf("flow[%d]: at and advance are mutually exclusive", index)
	}
	if step.At != "" {
		if _, err := time.Parse(time.RFC3339, step.At); err != nil {
			return fmt.Errorf("flow[%d].at: %w", index, err)
		}
	}
	if step.Advance != "" {
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return fmt.Errorf("flow[%d].advance: %w", index, err)
		}
		if d < 0 {
			return fmt.Errorf("flow[%d].advance: must not be negative (use at)", index)
		}
	}

	if step.Expect != nil {
		switch step.Expect.Case {
		case CaseOK, CaseInvalid, CaseNotFound, CaseError:
		case "":
			return fmt.Errorf("flow[%d].expect: case is required", index)
		default:
			return fmt.Errorf("flow[%d].expect: unknown case %q", index, step.Expect.Case)
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if _, ok := stateTables[a.Table]; !ok {
			return fmt.Errorf("assertions[%d]: unknown table %q for final_state", index, a.Table)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
