package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenDir holds the trace snapshots, relative to the test's package.
const GoldenDir = "testdata/golden"

// TraceSnapshot is the golden form of a scenario run: every submission,
// reaction and profile change with the awards it produced.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
}

// MarshalSnapshot renders the trace of result as indented JSON ending in a
// newline. encoding/json sorts map keys, so equal runs give equal bytes.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	data, err := json.MarshalIndent(TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal trace snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden runs scenario and compares its trace with
// testdata/golden/<name>.golden, failing t on a difference. Regenerate with
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	snapshot, err := MarshalSnapshot(scenario.Name, result)
	if err != nil {
		return nil, err
	}

	goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	).Assert(t, scenario.Name, snapshot)
	return result, nil
}
