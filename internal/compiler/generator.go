package compiler

import (
	"fmt"

	"github.com/roach88/tmgen/internal/ir"
)

// generator is the accumulator threaded through one compilation.
// next is the state the next scan step will own.
type generator struct {
	alphabet  ir.Alphabet
	next      ir.StateID
	loopEntry ir.StateID
	loopOpen  bool
	rows      []ir.Row
}

// Generate translates instructions into an ordered transition table.
//
// States are numbered from 0 and each MoveToChar owns exactly one of them.
// Rows are emitted in instruction order; within a step the order is
// stay rows (alphabet order), replacement rows (list order), the target
// row, then the blank row.
//
// Generate is total over parser output. An EndLoop without an open loop
// breaks that precondition and panics.
func Generate(alphabet ir.Alphabet, instructions []ir.Instruction) []ir.Row {
	g := &generator{alphabet: alphabet}
	for _, inst := range instructions {
		g.step(inst)
	}
	return g.rows
}

func (g *generator) step(inst ir.Instruction) {
	switch in := inst.(type) {
	case ir.AlphabetDecl:
		// Declarations carry no transitions.
	case ir.MoveToChar:
		g.scan(in)
	case ir.BeginLoop:
		g.loopEntry = g.next
		g.loopOpen = true
	case ir.EndLoop:
		if !g.loopOpen {
			panic(fmt.Sprintf("compiler: end_loop at state %d without begin_loop", g.next))
		}
		g.closeLoop(in)
		g.loopOpen = false
	default:
		panic(fmt.Sprintf("compiler: unknown instruction type %T", inst))
	}
}

// scan emits the rows for one MoveToChar and allocates its state.
//
// On reading the target the head steps back against the scan direction, so
// the machine comes to rest one cell short of the target.
func (g *generator) scan(m ir.MoveToChar) {
	s := g.next
	for _, x := range g.alphabet.Symbols() {
		if x == m.Target || isSource(m.Replacements, x) {
			continue
		}
		g.emit(s, x, s, x, m.Direction)
	}
	for _, r := range m.Replacements {
		g.emit(s, r.From, s, r.To, m.Direction)
	}
	g.emit(s, m.Target, s+1, m.Target, m.Direction.Opposite())
	if m.Target != ir.Blank {
		g.emit(s, ir.Blank, s, ir.Blank, m.Direction)
	}
	g.next++
}

// closeLoop attaches jump-back rows to the current state without
// allocating it. A following MoveToChar owns the same state and adds rows
// for symbols already covered here; Conflicts reports the overlap.
func (g *generator) closeLoop(e ir.EndLoop) {
	c := g.next
	for _, x := range g.alphabet.Symbols() {
		if isSource(e.Replacements, x) {
			continue
		}
		g.emit(c, x, g.loopEntry, x, e.Direction)
	}
	for _, r := range e.Replacements {
		g.emit(c, r.From, g.loopEntry, r.To, e.Direction)
	}
}

func (g *generator) emit(cur ir.StateID, read ir.Symbol, next ir.StateID, write ir.Symbol, dir ir.Direction) {
	g.rows = append(g.rows, ir.Row{
		Current:   cur,
		Read:      read,
		Next:      next,
		Write:     write,
		Direction: dir,
	})
}

func isSource(replacements []ir.Replacement, s ir.Symbol) bool {
	_, ok := ir.LookupReplacement(replacements, s)
	return ok
}

// StateCount returns the number of states allocated by instructions, which
// is also the id of the state reached after the last scan.
func StateCount(instructions []ir.Instruction) ir.StateID {
	var n ir.StateID
	for _, inst := range instructions {
		if _, ok := inst.(ir.MoveToChar); ok {
			n++
		}
	}
	return n
}
