package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tmgen/internal/ir"
)

func row(cur ir.StateID, read rune, next ir.StateID, write rune, dir ir.Direction) ir.Row {
	return ir.Row{Current: cur, Read: ir.Symbol(read), Next: next, Write: ir.Symbol(write), Direction: dir}
}

func alphabetAB() []ir.Instruction {
	return []ir.Instruction{ir.AlphabetDecl{Symbols: []ir.Symbol{'a', 'b'}}}
}

func TestGenerateScanToBlank(t *testing.T) {
	instrs := append(alphabetAB(), ir.MoveToChar{Direction: ir.Right, Target: ir.Blank})

	rows := Generate(ir.AlphabetOf("ab"), instrs)

	assert.Equal(t, []ir.Row{
		row(0, 'a', 0, 'a', ir.Right),
		row(0, 'b', 0, 'b', ir.Right),
		row(0, '-', 1, '-', ir.Left),
	}, rows)
}

func TestGenerateIdentityReplacement(t *testing.T) {
	instrs := append(alphabetAB(), ir.MoveToChar{
		Direction:    ir.Right,
		Target:       'b',
		Replacements: []ir.Replacement{{From: 'a', To: 'a'}},
	})

	rows := Generate(ir.AlphabetOf("ab"), instrs)

	assert.Equal(t, []ir.Row{
		row(0, 'a', 0, 'a', ir.Right),
		row(0, 'b', 1, 'b', ir.Left),
		row(0, '-', 0, '-', ir.Right),
	}, rows)
}

func TestGenerateLoopReturnsToEntry(t *testing.T) {
	instrs := append(alphabetAB(),
		ir.MoveToChar{Direction: ir.Right, Target: 'a'},
		ir.BeginLoop{},
		ir.MoveToChar{Direction: ir.Right, Target: 'b'},
		ir.EndLoop{Direction: ir.Right},
	)

	rows := Generate(ir.AlphabetOf("ab"), instrs)

	// The loop opens after one scan, so its entry is state 1.
	const entry = ir.StateID(1)
	var closing []ir.Row
	for _, r := range rows {
		if r.Current == 2 {
			closing = append(closing, r)
		}
	}
	require.Equal(t, []ir.Row{
		row(2, 'a', entry, 'a', ir.Right),
		row(2, 'b', entry, 'b', ir.Right),
	}, closing)
	for _, r := range closing {
		assert.Equal(t, entry, r.Next)
	}
}

func TestGenerateLoopReplacements(t *testing.T) {
	instrs := append(alphabetAB(),
		ir.BeginLoop{},
		ir.MoveToChar{Direction: ir.Left, Target: 'a'},
		ir.EndLoop{Direction: ir.Left, Replacements: []ir.Replacement{{From: 'b', To: 'a'}, {From: '-', To: 'b'}}},
	)

	rows := Generate(ir.AlphabetOf("ab"), instrs)

	assert.Equal(t, []ir.Row{
		row(0, 'b', 0, 'b', ir.Left),
		row(0, 'a', 1, 'a', ir.Right),
		row(0, '-', 0, '-', ir.Left),
		row(1, 'a', 0, 'a', ir.Left),
		row(1, 'b', 0, 'a', ir.Left),
		row(1, '-', 0, 'b', ir.Left),
	}, rows)
}

func TestGenerateEmptyLoopBody(t *testing.T) {
	instrs := append(alphabetAB(), ir.BeginLoop{}, ir.EndLoop{Direction: ir.Left})

	rows := Generate(ir.AlphabetOf("ab"), instrs)

	assert.Equal(t, []ir.Row{
		row(0, 'a', 0, 'a', ir.Left),
		row(0, 'b', 0, 'b', ir.Left),
	}, rows)
}

func TestGenerateSymbolsOutsideAlphabet(t *testing.T) {
	instrs := append(alphabetAB(), ir.MoveToChar{
		Direction:    ir.Left,
		Target:       'z',
		Replacements: []ir.Replacement{{From: 'x', To: 'y'}},
	})

	rows := Generate(ir.AlphabetOf("ab"), instrs)

	assert.Equal(t, []ir.Row{
		row(0, 'a', 0, 'a', ir.Left),
		row(0, 'b', 0, 'b', ir.Left),
		row(0, 'x', 0, 'y', ir.Left),
		row(0, 'z', 1, 'z', ir.Right),
		row(0, '-', 0, '-', ir.Left),
	}, rows)
}

func TestGenerateDuplicateReplacementSources(t *testing.T) {
	instrs := append(alphabetAB(), ir.MoveToChar{
		Direction:    ir.Right,
		Target:       ir.Blank,
		Replacements: []ir.Replacement{{From: 'a', To: 'b'}, {From: 'a', To: 'a'}},
	})

	rows := Generate(ir.AlphabetOf("ab"), instrs)

	assert.Equal(t, []ir.Row{
		row(0, 'b', 0, 'b', ir.Right),
		row(0, 'a', 0, 'b', ir.Right),
		row(0, 'a', 0, 'a', ir.Right),
		row(0, '-', 1, '-', ir.Left),
	}, rows)
	assert.Len(t, Conflicts(rows), 1)
}

func TestGenerateRowCountPerScan(t *testing.T) {
	alphabet := ir.AlphabetOf("abc")
	tests := []struct {
		name string
		step ir.MoveToChar
		want int
	}{
		{"blank target", ir.MoveToChar{Direction: ir.Right, Target: ir.Blank}, alphabet.Len() + 1},
		{"alphabet target", ir.MoveToChar{Direction: ir.Right, Target: 'b'}, alphabet.Len() + 1},
		{"alphabet target with replacement", ir.MoveToChar{Direction: ir.Right, Target: 'b', Replacements: []ir.Replacement{{From: 'a', To: 'c'}}}, alphabet.Len() + 1},
		{"foreign target", ir.MoveToChar{Direction: ir.Right, Target: 'q'}, alphabet.Len() + 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Generate(alphabet, []ir.Instruction{tt.step})
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestGenerateCounterMonotonic(t *testing.T) {
	instrs := append(alphabetAB(),
		ir.MoveToChar{Direction: ir.Right, Target: 'a'},
		ir.MoveToChar{Direction: ir.Left, Target: 'b'},
		ir.BeginLoop{},
		ir.MoveToChar{Direction: ir.Right, Target: ir.Blank},
		ir.EndLoop{Direction: ir.Left},
		ir.MoveToChar{Direction: ir.Left, Target: 'a'},
	)

	rows := Generate(ir.AlphabetOf("ab"), instrs)

	var last ir.StateID
	for i, r := range rows {
		assert.GreaterOrEqual(t, r.Current, last, "row %d went back to an earlier state", i)
		last = r.Current
	}
	assert.Equal(t, ir.StateID(4), StateCount(instrs))
}

func TestGenerateScanAdvancesToNextState(t *testing.T) {
	instrs := append(alphabetAB(),
		ir.MoveToChar{Direction: ir.Right, Target: 'a'},
		ir.MoveToChar{Direction: ir.Right, Target: 'b'},
		ir.MoveToChar{Direction: ir.Right, Target: ir.Blank},
	)

	rows := Generate(ir.AlphabetOf("ab"), instrs)

	for _, r := range rows {
		if r.Next != r.Current {
			assert.Equal(t, r.Current+1, r.Next, "only target rows leave a state: %s", r)
			assert.Equal(t, r.Read, r.Write)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	instrs := append(alphabetAB(),
		ir.BeginLoop{},
		ir.MoveToChar{Direction: ir.Right, Target: 'b', Replacements: []ir.Replacement{{From: 'a', To: 'b'}}},
		ir.EndLoop{Direction: ir.Right, Replacements: []ir.Replacement{{From: 'a', To: 'a'}}},
	)

	first := Generate(ir.AlphabetOf("ab"), instrs)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Generate(ir.AlphabetOf("ab"), instrs))
	}
}

func TestGenerateAlphabetOnly(t *testing.T) {
	rows := Generate(ir.AlphabetOf("ab"), alphabetAB())
	assert.Empty(t, rows)
}

func TestGenerateEndLoopWithoutBeginPanics(t *testing.T) {
	assert.Panics(t, func() {
		Generate(ir.AlphabetOf("ab"), append(alphabetAB(), ir.EndLoop{Direction: ir.Left}))
	})
}
