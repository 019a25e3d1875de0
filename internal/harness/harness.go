package harness

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/tmgen/internal/compiler"
	"github.com/roach88/tmgen/internal/ir"
	"github.com/roach88/tmgen/internal/parser"
	"github.com/roach88/tmgen/internal/store"
)

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Parse the program; a front-end rejection is recorded, not returned
//  2. Compile it twice and archive both runs in a fresh in-memory store
//  3. Fail if the second run did not hit the first archived table
//  4. Evaluate assertions
//
// The returned error covers only failures to execute (unreadable program
// file, store errors); assertion failures are in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	src, name, err := programSource(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()

	prog, err := parser.ParseString(name, src)
	if err != nil {
		var perr *parser.ParseError
		if !errors.As(err, &perr) {
			return nil, fmt.Errorf("failed to parse program: %w", err)
		}
		result.ParseError = perr
	} else if err := compileAndArchive(prog, result); err != nil {
		return nil, err
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

func programSource(s *Scenario) (src, name string, err error) {
	if s.ProgramFile == "" {
		return s.Program, s.Name, nil
	}
	data, err := os.ReadFile(s.ProgramFile)
	if err != nil {
		return "", "", fmt.Errorf("failed to read program file: %w", err)
	}
	return string(data), s.ProgramFile, nil
}

// compileAndArchive compiles prog twice through an isolated archive. The
// second write must be an idempotent hit on the first.
func compileAndArchive(prog *ir.Program, result *Result) error {
	st, err := store.Open(":memory:", store.WithIDGenerator(store.NewFixedGenerator("first", "second")))
	if err != nil {
		return fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	source := parser.Describe(prog)

	var ids [2]string
	var res *compiler.Result
	for i := range ids {
		res = compiler.Compile(prog)
		c, err := ir.NewCompilation(prog, source, res.Rows, res.StateCount)
		if err != nil {
			return fmt.Errorf("failed to hash compilation: %w", err)
		}
		ids[i], _, err = st.WriteCompilation(ctx, c)
		if err != nil {
			return fmt.Errorf("failed to archive compilation: %w", err)
		}
		result.ProgramHash = c.ProgramHash
		result.TableHash = c.TableHash
	}

	result.setCompiled(res)
	if ids[0] != ids[1] {
		result.AddError(fmt.Sprintf("non-deterministic compilation: archived as %s and %s", ids[0], ids[1]))
	}
	return nil
}
