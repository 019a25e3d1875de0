package harness

import (
	"github.com/roach88/tmgen/internal/compiler"
	"github.com/roach88/tmgen/internal/ir"
	"github.com/roach88/tmgen/internal/parser"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Rows is the generated table. Empty if the program was rejected.
	Rows []ir.Row `json:"rows"`

	// StateCount is the number of states allocated by scan steps.
	StateCount ir.StateID `json:"state_count"`

	// Conflicts and Gaps are the compiler diagnostics.
	Conflicts []compiler.Conflict `json:"conflicts"`
	Gaps      []compiler.Gap      `json:"gaps"`

	// ProgramHash and TableHash identify the compilation.
	ProgramHash string `json:"program_hash,omitempty"`
	TableHash   string `json:"table_hash,omitempty"`

	// ParseError is set when the front-end rejected the program.
	ParseError *parser.ParseError `json:"parse_error,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Rows:      []ir.Row{},
		Conflicts: []compiler.Conflict{},
		Gaps:      []compiler.Gap{},
		Errors:    []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// setCompiled copies a compilation into the result.
func (r *Result) setCompiled(res *compiler.Result) {
	r.Rows = res.Rows
	if r.Rows == nil {
		r.Rows = []ir.Row{}
	}
	r.StateCount = res.StateCount
	r.Conflicts = res.Conflicts
	r.Gaps = res.Gaps
}
