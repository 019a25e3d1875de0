package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tmgen/internal/table"
)

// Scenario defines one compiler test case: a program and what its
// compilation must look like.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Program is the inline program source.
	Program string `yaml:"program,omitempty"`

	// ProgramFile is a path to the program source, relative to the
	// scenario file. Exactly one of Program and ProgramFile is set.
	ProgramFile string `yaml:"program_file,omitempty"`

	// Assertions validate the compilation.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of a compilation.
type Assertion struct {
	// Type selects the check; see the Assert* constants.
	Type string `yaml:"type"`

	// Rows is the exact expected table (rows_equal), canonical row text.
	Rows []string `yaml:"rows,omitempty"`

	// Row must appear in the table (row_present), canonical row text.
	Row string `yaml:"row,omitempty"`

	// Count is the expected number for row_count, state_count, conflicts
	// and coverage_gaps. A pointer so that 0 is distinguishable from unset.
	Count *int `yaml:"count,omitempty"`

	// Code is the expected front-end error code (parse_error).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertRowsEqual    = "rows_equal"
	AssertRowPresent   = "row_present"
	AssertRowCount     = "row_count"
	AssertStateCount   = "state_count"
	AssertConflicts    = "conflicts"
	AssertCoverageGaps = "coverage_gaps"
	AssertParseError   = "parse_error"
)

// LoadScenario reads and parses a scenario YAML file.
// A ProgramFile is resolved relative to the scenario file's directory.
//
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.ProgramFile != "" && !filepath.IsAbs(scenario.ProgramFile) {
		scenario.ProgramFile = filepath.Join(filepath.Dir(path), scenario.ProgramFile)
	}
	if scenario.ProgramFile != "" {
		if _, err := os.Stat(scenario.ProgramFile); err != nil {
			return nil, fmt.Errorf("invalid scenario: program file not found: %s", scenario.ProgramFile)
		}
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML held in memory.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
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

	if (s.Program == "") == (s.ProgramFile == "") {
		return fmt.Errorf("exactly one of program and program_file is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
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
	case AssertRowsEqual:
		if a.Rows == nil {
			return fmt.Errorf("assertions[%d]: rows is required for rows_equal", index)
		}
		for j, row := range a.Rows {
			if _, err := table.ReadString(row); err != nil {
				return fmt.Errorf("assertions[%d].rows[%d]: %w", index, j, err)
			}
		}
	case AssertRowPresent:
		if a.Row == "" {
			return fmt.Errorf("assertions[%d]: row is required for row_present", index)
		}
		if _, err := table.ReadString(a.Row); err != nil {
			return fmt.Errorf("assertions[%d].row: %w", index, err)
		}
	case AssertRowCount, AssertStateCount, AssertConflicts, AssertCoverageGaps:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertParseError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for parse_error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
