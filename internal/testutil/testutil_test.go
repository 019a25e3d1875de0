package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tmgen/internal/ir"
)

func TestMustParse(t *testing.T) {
	p := MustParse(t, "alphabet, ab\nmove_to_char, right, -\n")
	assert.Equal(t, "ab", p.Alphabet.String())
	assert.Len(t, p.Instructions, 2)
}

func TestMustRows(t *testing.T) {
	rows := MustRows(t, "(0,a,0,a,>)\n(0,-,1,-,<)\n")
	require.Len(t, rows, 2)
	assert.Equal(t, ir.Row{Current: 0, Read: '-', Next: 1, Write: '-', Direction: ir.Left}, rows[1])
}

func TestCompilation(t *testing.T) {
	src := "alphabet, ab\nmove_to_char, right, -\n"

	first := Compilation(t, src)
	second := Compilation(t, src)

	assert.Empty(t, first.ID)
	assert.Equal(t, first.TableHash, second.TableHash)
	assert.Equal(t, ir.StateID(1), first.StateCount)
	assert.Equal(t, MustRows(t, "(0,a,0,a,>)\n(0,b,0,b,>)\n(0,-,1,-,<)"), first.Rows)
	assert.Equal(t, ir.GeneratorVersion, first.GeneratorVersion)
}
