package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/tmgen/internal/ir"
	"github.com/roach88/tmgen/internal/table"
)

// AssertionError is returned when an assertion fails.
// It includes the generated table to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Rows     []ir.Row // Full table for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Rows) > 0 {
		fmt.Fprintf(&buf, "\nFull table:\n")
		for i, r := range e.Rows {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, r)
		}
	}

	return buf.String()
}

// assertRowsEqual checks the table row by row, in order.
func assertRowsEqual(result *Result, assertion Assertion) error {
	want, err := table.ReadString(strings.Join(assertion.Rows, "\n"))
	if err != nil {
		return fmt.Errorf("rows_equal: %w", err)
	}

	if len(want) != len(result.Rows) {
		return &AssertionError{
			Type:     AssertRowsEqual,
			Expected: fmt.Sprintf("%d rows", len(want)),
			Actual:   fmt.Sprintf("%d rows", len(result.Rows)),
			Rows:     result.Rows,
		}
	}
	for i := range want {
		if want[i] != result.Rows[i] {
			return &AssertionError{
				Type:     AssertRowsEqual,
				Expected: fmt.Sprintf("row %d = %s", i+1, want[i]),
				Actual:   result.Rows[i].String(),
				Rows:     result.Rows,
			}
		}
	}
	return nil
}

// assertRowPresent checks that a row appears anywhere in the table.
func assertRowPresent(result *Result, assertion Assertion) error {
	want, err := table.ReadString(assertion.Row)
	if err != nil {
		return fmt.Errorf("row_present: %w", err)
	}
	if len(want) != 1 {
		return fmt.Errorf("row_present: expected exactly one row, got %d", len(want))
	}

	for _, r := range result.Rows {
		if r == want[0] {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertRowPresent,
		Expected: want[0].String(),
		Actual:   "not found in table",
		Rows:     result.Rows,
	}
}

// assertCount compares one counted property of the result.
func assertCount(kind string, got int, assertion Assertion, rows []ir.Row) error {
	if got == *assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     kind,
		Expected: fmt.Sprintf("%d", *assertion.Count),
		Actual:   fmt.Sprintf("%d", got),
		Rows:     rows,
	}
}

// assertParseError checks that the front-end rejected the program with code.
func assertParseError(result *Result, assertion Assertion) error {
	if result.ParseError == nil {
		return &AssertionError{
			Type:     AssertParseError,
			Expected: fmt.Sprintf("front-end error %s", assertion.Code),
			Actual:   "program compiled",
			Rows:     result.Rows,
		}
	}
	if result.ParseError.Code != assertion.Code {
		return &AssertionError{
			Type:     AssertParseError,
			Expected: fmt.Sprintf("front-end error %s", assertion.Code),
			Actual:   result.ParseError.Error(),
		}
	}
	return nil
}

// EvaluateAssertions runs all assertions against a result.
// Returns a list of error messages for failed assertions (empty if all pass).
//
// A rejected program only satisfies parse_error; every other assertion
// fails with the front-end error.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		if result.ParseError != nil && assertion.Type != AssertParseError {
			err = fmt.Errorf("assertion[%d]: %s: program rejected: %v", i, assertion.Type, result.ParseError)
			errors = append(errors, err.Error())
			continue
		}

		switch assertion.Type {
		case AssertRowsEqual:
			err = assertRowsEqual(result, assertion)
		case AssertRowPresent:
			err = assertRowPresent(result, assertion)
		case AssertRowCount:
			err = assertCount(AssertRowCount, len(result.Rows), assertion, result.Rows)
		case AssertStateCount:
			err = assertCount(AssertStateCount, int(result.StateCount), assertion, result.Rows)
		case AssertConflicts:
			err = assertCount(AssertConflicts, len(result.Conflicts), assertion, result.Rows)
		case AssertCoverageGaps:
			err = assertCount(AssertCoverageGaps, len(result.Gaps), assertion, result.Rows)
		case AssertParseError:
			err = assertParseError(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
