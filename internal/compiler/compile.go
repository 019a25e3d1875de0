package compiler

import (
	"github.com/roach88/tmgen/internal/ir"
)

// Result is one compiled program together with its diagnostics.
type Result struct {
	Program    *ir.Program `json:"-"`
	Rows       []ir.Row    `json:"rows"`
	StateCount ir.StateID  `json:"state_count"`
	Halt       ir.StateID  `json:"halt"`
	Halts      bool        `json:"halts"`
	Conflicts  []Conflict  `json:"conflicts"`
	Gaps       []Gap       `json:"gaps"`
}

// Compile generates the transition table for a parsed program and runs the
// conflict and coverage diagnostics over it.
//
// Diagnostics never change the table. A program that closes a loop and then
// scans again yields conflicts at the shared state; those rows are kept.
// Conflicts and Gaps are never nil.
func Compile(p *ir.Program) *Result {
	rows := Generate(p.Alphabet, p.Instructions)
	count := StateCount(p.Instructions)
	halt, halts := HaltState(rows, count)

	res := &Result{
		Program:    p,
		Rows:       rows,
		StateCount: count,
		Halt:       halt,
		Halts:      halts,
		Conflicts:  Conflicts(rows),
		Gaps:       Coverage(p.Alphabet, rows, halt, halts),
	}
	if res.Conflicts == nil {
		res.Conflicts = []Conflict{}
	}
	if res.Gaps == nil {
		res.Gaps = []Gap{}
	}
	return res
}

// Deterministic reports whether every (state, read) pair has at most one row.
func (r *Result) Deterministic() bool {
	return len(r.Conflicts) == 0
}

// Complete reports whether every reachable non-halt state covers the whole
// readable symbol space.
func (r *Result) Complete() bool {
	return len(r.Gaps) == 0
}
