package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tmgen/internal/ir"
)

// Snapshot renders the deterministic part of a result as canonical JSON:
// the scenario name, the table in canonical row text, the state count and
// the diagnostics, or the front-end error code for rejected programs.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := map[string]any{
		"scenario_name": scenarioName,
	}

	if result.ParseError != nil {
		snapshot["parse_error"] = result.ParseError.Code
		return ir.MarshalCanonical(snapshot)
	}

	rows := make([]string, len(result.Rows))
	for i, r := range result.Rows {
		rows[i] = r.String()
	}
	conflicts := make([]string, len(result.Conflicts))
	for i, c := range result.Conflicts {
		conflicts[i] = c.String()
	}
	gaps := make([]string, len(result.Gaps))
	for i, g := range result.Gaps {
		gaps[i] = g.String()
	}

	snapshot["rows"] = rows
	snapshot["state_count"] = result.StateCount
	snapshot["conflicts"] = conflicts
	snapshot["gaps"] = gaps
	snapshot["table_hash"] = result.TableHash
	return ir.MarshalCanonical(snapshot)
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
