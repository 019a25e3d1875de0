package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tmgen/internal/compiler"
	"github.com/roach88/tmgen/internal/ir"
	"github.com/roach88/tmgen/internal/parser"
)

func compileSource(t *testing.T, src string) []ir.Row {
	t.Helper()
	prog, err := parser.ParseString("test.tm", src)
	require.NoError(t, err)
	return compiler.Generate(prog.Alphabet, prog.Instructions)
}

func loopRows(t *testing.T) []ir.Row {
	return compileSource(t, "alphabet, ab\nbegin_loop\nmove_to_char, right, b\nend_loop, right\n")
}

func TestFormatGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "loop_table", []byte(Format(loopRows(t))))
}

func TestWriteJSONGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, loopRows(t)[:2]))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "loop_table_json", buf.Bytes())
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatScanToBlank(t *testing.T) {
	rows := compileSource(t, "alphabet, ab\nmove_to_char, right, -\n")
	assert.Equal(t, "(0,a,0,a,>)\n(0,b,0,b,>)\n(0,-,1,-,<)\n", Format(rows))
}

func TestRoundTrip(t *testing.T) {
	sources := []string{
		"alphabet, ab\nmove_to_char, right, -\n",
		"alphabet, ab\nmove_to_char, right, b, a -> a\n",
		"alphabet, abc\nmove_to_char, left, c\nbegin_loop\nmove_to_char, right, -, a -> b\nend_loop, left, c -> a\nmove_to_char, left, a\n",
		"alphabet, xy\nmove_to_char, right, (, x -> )\n",
	}

	for _, src := range sources {
		rows := compileSource(t, src)

		back, err := ReadString(Format(rows))
		require.NoError(t, err)
		assert.Equal(t, rows, back)

		var buf bytes.Buffer
		require.NoError(t, Write(&buf, back))
		assert.Equal(t, Format(rows), buf.String())
	}
}

func TestRoundTripSpaceAndCommaSymbols(t *testing.T) {
	sources := []string{
		"alphabet, a b\nmove_to_char, right, a\n",
		"alphabet, a,b\nmove_to_char, left, ,, a -> ,\n",
		"alphabet, ab\nmove_to_char, right,  , a ->  \n",
	}

	for _, src := range sources {
		rows := compileSource(t, src)

		back, err := ReadString(Format(rows))
		require.NoError(t, err, Format(rows))
		assert.Equal(t, rows, back)
	}
}

func TestReadSymbolFields(t *testing.T) {
	rows, err := ReadString("(0, ,0, ,>)\n(0,,,1,,,<)\n(10,,,11,a,>)\n")
	require.NoError(t, err)
	assert.Equal(t, []ir.Row{
		{Current: 0, Read: ' ', Next: 0, Write: ' ', Direction: ir.Right},
		{Current: 0, Read: ',', Next: 1, Write: ',', Direction: ir.Left},
		{Current: 10, Read: ',', Next: 11, Write: 'a', Direction: ir.Right},
	}, rows)
}

func TestReadToleratesWhitespace(t *testing.T) {
	rows, err := ReadString("\n  (0, a, 1, b, >)  \n\n\t(12,-,3,-,<)\n")
	require.NoError(t, err)
	assert.Equal(t, []ir.Row{
		{Current: 0, Read: 'a', Next: 1, Write: 'b', Direction: ir.Right},
		{Current: 12, Read: '-', Next: 3, Write: '-', Direction: ir.Left},
	}, rows)
}

func TestReadEmpty(t *testing.T) {
	rows, err := ReadString("")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"no parens", "0,a,0,a,>", 1, "parenthesized"},
		{"too few fields", "(0,a,0,a)", 1, "expected 5 fields"},
		{"too many fields", "(0,a,0,a,>,>)", 1, "expected 5 fields"},
		{"far too many fields", "(0,a,0,a,>,>,>,>)", 1, "expected 5 fields"},
		{"blank-only symbol", "(0,  ,0,a,>)", 1, "invalid symbol"},
		{"stray comma", "(0,,0,a,>)", 1, "expected 5 fields"},
		{"bad state", "(x,a,0,a,>)", 1, "invalid state"},
		{"negative state", "(0,a,-1,a,>)", 1, "invalid state"},
		{"long symbol", "(0,ab,0,a,>)", 1, "invalid symbol"},
		{"bad move", "(0,a,0,a,R)", 1, "invalid movement"},
		{"second line", "(0,a,0,a,>)\n(0,b,0,b)\n", 2, "expected 5 fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadString(tt.src)
			require.Error(t, err)
			assert.Nil(t, rows)

			var rerr *ReadError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.line, rerr.Line)
			assert.Contains(t, rerr.Message, tt.msg)
			assert.True(t, strings.HasPrefix(err.Error(), "line "))
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(loopRows(t))

	assert.Equal(t, 5, s.Rows)
	assert.Equal(t, 2, s.States)
	assert.Equal(t, ir.StateID(1), s.MaxState)
	assert.Equal(t, []ir.Symbol{'a', 'b', '-'}, s.Symbols)
	assert.Equal(t, 1, s.LeftMoves)
	assert.Equal(t, 4, s.RightMoves)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, Summary{Symbols: []ir.Symbol{}}, s)
}
