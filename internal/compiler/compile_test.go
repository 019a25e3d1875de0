package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tmgen/internal/ir"
)

func program(alphabet string, steps ...ir.Instruction) *ir.Program {
	a := ir.AlphabetOf(alphabet)
	instrs := append([]ir.Instruction{ir.AlphabetDecl{Symbols: a.Symbols()}}, steps...)
	return &ir.Program{Name: "test.tm", Alphabet: a, Instructions: instrs}
}

func TestCompileSingleScan(t *testing.T) {
	res := Compile(program("ab", ir.MoveToChar{Direction: ir.Right, Target: ir.Blank}))

	assert.Len(t, res.Rows, 3)
	assert.Equal(t, ir.StateID(1), res.StateCount)
	assert.Equal(t, ir.StateID(1), res.Halt)
	assert.True(t, res.Halts)
	assert.True(t, res.Deterministic())
	assert.True(t, res.Complete(), "gaps: %v", res.Gaps)
}

func TestCompileChainedScansAreExhaustive(t *testing.T) {
	res := Compile(program("abc",
		ir.MoveToChar{Direction: ir.Right, Target: 'a'},
		ir.MoveToChar{Direction: ir.Left, Target: ir.Blank, Replacements: []ir.Replacement{{From: 'b', To: 'c'}}},
		ir.MoveToChar{Direction: ir.Right, Target: 'q'},
	))

	assert.Equal(t, ir.StateID(3), res.StateCount)
	assert.True(t, res.Halts)
	assert.Empty(t, res.Gaps)
	assert.Empty(t, res.Conflicts)
}

func TestCompileLoopAtEndHasNoHalt(t *testing.T) {
	res := Compile(program("ab",
		ir.BeginLoop{},
		ir.MoveToChar{Direction: ir.Right, Target: 'b'},
		ir.EndLoop{Direction: ir.Right},
	))

	assert.Equal(t, ir.StateID(1), res.StateCount)
	assert.False(t, res.Halts)
	assert.Empty(t, res.Conflicts)
	// Jump-back rows cover the alphabet but not blank.
	assert.Equal(t, []Gap{{State: 1, Read: ir.Blank}}, res.Gaps)
}

func TestCompileScanAfterLoopConflicts(t *testing.T) {
	res := Compile(program("ab",
		ir.BeginLoop{},
		ir.MoveToChar{Direction: ir.Right, Target: 'b'},
		ir.EndLoop{Direction: ir.Left},
		ir.MoveToChar{Direction: ir.Right, Target: ir.Blank},
	))

	require.Len(t, res.Conflicts, 2)
	assert.Equal(t, ir.StateID(1), res.Conflicts[0].State)
	assert.Equal(t, ir.Symbol('a'), res.Conflicts[0].Read)
	assert.Equal(t, []ir.Row{
		row(1, 'a', 0, 'a', ir.Left),
		row(1, 'a', 1, 'a', ir.Right),
	}, res.Conflicts[0].Rows)
	assert.Equal(t, ir.Symbol('b'), res.Conflicts[1].Read)
	assert.False(t, res.Deterministic())

	// The rows are kept as generated.
	assert.Len(t, res.Rows, 3+2+3)
}

func TestCompileTargetAlsoReplaced(t *testing.T) {
	res := Compile(program("ab", ir.MoveToChar{
		Direction:    ir.Right,
		Target:       'a',
		Replacements: []ir.Replacement{{From: 'a', To: 'b'}},
	}))

	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "state 0 reading a has 2 rows", res.Conflicts[0].String())
}

func TestCompileDiagnosticsNeverNil(t *testing.T) {
	res := Compile(program("ab", ir.MoveToChar{Direction: ir.Right, Target: ir.Blank}))

	assert.NotNil(t, res.Conflicts)
	assert.NotNil(t, res.Gaps)
	assert.Empty(t, res.Conflicts)
	assert.Empty(t, res.Gaps)
}

func TestCompileDoesNotMutateProgram(t *testing.T) {
	p := program("ab", ir.MoveToChar{Direction: ir.Right, Target: 'a'})
	before := ir.MustProgramHash(p)

	Compile(p)
	Compile(p)

	assert.Equal(t, before, ir.MustProgramHash(p))
}

func TestCompileTableHashStable(t *testing.T) {
	p := program("abc",
		ir.MoveToChar{Direction: ir.Left, Target: 'c'},
		ir.BeginLoop{},
		ir.MoveToChar{Direction: ir.Right, Target: ir.Blank, Replacements: []ir.Replacement{{From: 'a', To: 'b'}}},
		ir.EndLoop{Direction: ir.Left},
	)

	assert.Equal(t, ir.MustTableHash(Compile(p).Rows), ir.MustTableHash(Compile(p).Rows))
}

func TestConflictsEmpty(t *testing.T) {
	assert.Empty(t, Conflicts(nil))
	assert.Empty(t, Conflicts([]ir.Row{row(0, 'a', 0, 'a', ir.Left), row(0, 'b', 0, 'b', ir.Left)}))
}

func TestCoverageOrdering(t *testing.T) {
	rows := []ir.Row{
		row(2, 'a', 0, 'a', ir.Left),
		row(0, 'b', 2, 'b', ir.Right),
	}

	gaps := Coverage(ir.AlphabetOf("ab"), rows, 5, true)

	assert.Equal(t, []Gap{
		{State: 0, Read: 'a'},
		{State: 0, Read: ir.Blank},
		{State: 2, Read: 'b'},
		{State: 2, Read: ir.Blank},
	}, gaps)
	assert.Equal(t, "state 0 has no row for a", gaps[0].String())
}

func TestCoverageSkipsHalt(t *testing.T) {
	rows := []ir.Row{
		row(0, 'a', 1, 'a', ir.Left),
		row(0, '-', 0, '-', ir.Right),
	}

	assert.Empty(t, Coverage(ir.AlphabetOf("a"), rows, 1, true))
	assert.Equal(t, []Gap{{State: 1, Read: 'a'}, {State: 1, Read: ir.Blank}},
		Coverage(ir.AlphabetOf("a"), rows, 1, false))
}

func TestHaltState(t *testing.T) {
	rows := []ir.Row{row(0, 'a', 1, 'a', ir.Left)}

	halt, ok := HaltState(rows, 1)
	assert.True(t, ok)
	assert.Equal(t, ir.StateID(1), halt)

	_, ok = HaltState(rows, 0)
	assert.False(t, ok)
}
