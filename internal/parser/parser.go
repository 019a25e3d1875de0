package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/roach88/tmgen/internal/ir"
)

// Command names recognized by the front-end.
const (
	CmdAlphabet        = "alphabet"
	CmdMoveToChar      = "move_to_char"
	CmdMoveToCharLeft  = "move_to_char_left"
	CmdMoveToCharRight = "move_to_char_right"
	CmdBeginLoop       = "begin_loop"
	CmdEndLoop         = "end_loop"
)

// separator divides a line into tokens.
const separator = ", "

// field is one token and the 1-based column it starts at.
type field struct {
	text string
	col  int
}

// keyword returns the token with surrounding whitespace removed. Command
// names and directions are keywords; symbols are taken verbatim.
func (f field) keyword() string {
	return strings.TrimSpace(f.text)
}

// ParseFile reads and parses a program file.
func ParseFile(path string) (*ir.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(ErrReadFailed, Pos{Filename: path}, "", "could not open file: %v", err)
	}
	defer f.Close()
	return Parse(path, f)
}

// ParseString parses program source held in memory.
func ParseString(name, src string) (*ir.Program, error) {
	return Parse(name, strings.NewReader(src))
}

// Parse reads a whole program and returns it validated, or the first error.
//
// A returned program always starts with exactly one alphabet declaration,
// has balanced, non-nested loops, and a non-empty instruction list. Symbols
// used by instructions are NOT checked against the alphabet.
func Parse(name string, r io.Reader) (*ir.Program, error) {
	b := newBuilder(name)
	err := scanLines(name, r, func(line int, text string) bool {
		if perr := b.line(line, text); perr != nil {
			b.errs = append(b.errs, perr)
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	if perr := b.finish(); perr != nil {
		return nil, perr
	}
	return b.program(), nil
}

// Validate checks a whole program and returns every error found.
// It does not stop at the first bad line. An empty result means Parse would
// succeed on the same input.
func Validate(name string, r io.Reader) []*ParseError {
	b := newBuilder(name)
	if err := scanLines(name, r, func(line int, text string) bool {
		if perr := b.line(line, text); perr != nil {
			b.errs = append(b.errs, perr)
		}
		return true
	}); err != nil {
		return []*ParseError{err}
	}
	if perr := b.finish(); perr != nil {
		b.errs = append(b.errs, perr)
	}
	return b.errs
}

// scanLines calls fn for every line; fn returns false to stop early.
func scanLines(name string, r io.Reader, fn func(line int, text string) bool) *ParseError {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if !fn(line, scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return newError(ErrReadFailed, Pos{Filename: name, Line: line + 1}, "", "could not read input: %v", err)
	}
	return nil
}

// ParseLine parses a single instruction line without program-level checks.
// Blank and comment lines return (nil, nil).
func ParseLine(text string) (ir.Instruction, error) {
	inst, perr := parseInstruction(Pos{Line: 1}, text)
	if perr != nil {
		return nil, perr
	}
	return inst, nil
}

// builder accumulates instructions and enforces program structure.
type builder struct {
	name         string
	alphabet     ir.Alphabet
	instructions []ir.Instruction
	seenAlphabet bool
	reportedNone bool
	loopOpen     bool
	loopPos      Pos
	loopText     string
	errs         []*ParseError
}

func newBuilder(name string) *builder {
	return &builder{name: name}
}

func (b *builder) line(line int, text string) *ParseError {
	pos := Pos{Filename: b.name, Line: line}
	inst, perr := parseInstruction(pos, text)
	if perr != nil {
		return perr
	}
	if inst == nil {
		return nil
	}
	trimmed := strings.TrimSpace(text)

	var noAlphabet *ParseError
	switch in := inst.(type) {
	case ir.AlphabetDecl:
		if b.seenAlphabet {
			return newError(ErrDuplicateAlphabet, pos, trimmed, "only one alphabet is allowed")
		}
		b.seenAlphabet = true
		if len(b.instructions) > 0 {
			// Late alphabet: the missing first declaration was already reported.
			return nil
		}
		b.alphabet = ir.NewAlphabet(in.Symbols...)
	default:
		if len(b.instructions) == 0 && !b.seenAlphabet && !b.reportedNone {
			b.reportedNone = true
			noAlphabet = newError(ErrNoAlphabet, pos, trimmed, "the first instruction must be an alphabet declaration")
		}
	}

	var loopErr *ParseError
	switch inst.(type) {
	case ir.BeginLoop:
		if b.loopOpen {
			loopErr = newError(ErrNestedLoop, pos, trimmed, "begin_loop inside the loop opened at line %d", b.loopPos.Line)
		} else {
			b.loopOpen = true
			b.loopPos = pos
			b.loopText = trimmed
		}
	case ir.EndLoop:
		if !b.loopOpen {
			loopErr = newError(ErrUnmatchedEndLoop, pos, trimmed, "end_loop without a matching begin_loop")
		} else {
			b.loopOpen = false
		}
	}

	if loopErr == nil {
		b.instructions = append(b.instructions, inst)
	}
	if noAlphabet != nil {
		return noAlphabet
	}
	return loopErr
}

func (b *builder) finish() *ParseError {
	if len(b.instructions) == 0 {
		return newError(ErrEmptyProgram, Pos{Filename: b.name}, "", "program has no instructions")
	}
	if b.loopOpen {
		return newError(ErrUnclosedLoop, b.loopPos, b.loopText, "begin_loop is never closed")
	}
	return nil
}

func (b *builder) program() *ir.Program {
	return &ir.Program{
		Name:         b.name,
		Alphabet:     b.alphabet,
		Instructions: b.instructions,
	}
}

// parseInstruction turns one line into an instruction. Blank lines and
// lines starting with '#' yield a nil instruction.
func parseInstruction(pos Pos, text string) (ir.Instruction, *ParseError) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, nil
	}

	fields := splitFields(text)
	cmd := fields[0]
	cmd.text = cmd.keyword()
	at := func(f field) Pos {
		p := pos
		p.Column = f.col
		return p
	}

	switch cmd.text {
	case CmdAlphabet:
		return parseAlphabet(pos, trimmed, fields, at)

	case CmdMoveToChar:
		dir, perr := getDirection(pos, trimmed, fields, 1, at)
		if perr != nil {
			return nil, perr
		}
		target, perr := getSymbol(pos, trimmed, fields, 2, at)
		if perr != nil {
			return nil, perr
		}
		repl, perr := getReplacements(trimmed, fields, 3, at)
		if perr != nil {
			return nil, perr
		}
		return ir.MoveToChar{Direction: dir, Target: target, Replacements: repl}, nil

	case CmdMoveToCharLeft, CmdMoveToCharRight:
		dir := ir.Right
		if cmd.text == CmdMoveToCharLeft {
			dir = ir.Left
		}
		target, perr := getSymbol(pos, trimmed, fields, 1, at)
		if perr != nil {
			return nil, perr
		}
		repl, perr := getReplacements(trimmed, fields, 2, at)
		if perr != nil {
			return nil, perr
		}
		return ir.MoveToChar{Direction: dir, Target: target, Replacements: repl}, nil

	case CmdBeginLoop:
		if len(fields) > 1 {
			return nil, newError(ErrUnexpectedArgument, at(fields[1]), trimmed, "begin_loop takes no arguments")
		}
		return ir.BeginLoop{}, nil

	case CmdEndLoop:
		dir, perr := getDirection(pos, trimmed, fields, 1, at)
		if perr != nil {
			return nil, perr
		}
		repl, perr := getReplacements(trimmed, fields, 2, at)
		if perr != nil {
			return nil, perr
		}
		return ir.EndLoop{Direction: dir, Replacements: repl}, nil

	default:
		return nil, newError(ErrUnknownCommand, at(cmd), trimmed, "unknown command %q", cmd.text)
	}
}

func parseAlphabet(pos Pos, line string, fields []field, at func(field) Pos) (ir.Instruction, *ParseError) {
	if len(fields) < 2 || fields[1].text == "" {
		return nil, newError(ErrMissingParameter, pos, line, "alphabet requires a list of symbols")
	}
	if len(fields) > 2 {
		return nil, newError(ErrUnexpectedArgument, at(fields[2]), line, "alphabet takes a single argument")
	}

	arg := fields[1]
	seen := make(map[ir.Symbol]bool)
	var symbols []ir.Symbol
	for _, r := range arg.text {
		s := ir.Symbol(r)
		if s == ir.Blank {
			return nil, newError(ErrBlankInAlphabet, at(arg), line, "the blank symbol %q is reserved", string(ir.Blank))
		}
		if seen[s] {
			return nil, newError(ErrDuplicateSymbol, at(arg), line, "symbol %q declared twice", string(r))
		}
		seen[s] = true
		symbols = append(symbols, s)
	}
	return ir.AlphabetDecl{Symbols: symbols}, nil
}

// getSymbol returns the single symbol at argument index i.
func getSymbol(pos Pos, line string, fields []field, i int, at func(field) Pos) (ir.Symbol, *ParseError) {
	if i >= len(fields) || fields[i].text == "" {
		return 0, newError(ErrMissingParameter, pos, line, "missing symbol argument %d", i)
	}
	f := fields[i]
	if utf8.RuneCountInString(f.text) != 1 {
		return 0, newError(ErrOnlyOneLetter, at(f), line, "expected one symbol, got %q", f.text)
	}
	r, _ := utf8.DecodeRuneInString(f.text)
	return ir.Symbol(r), nil
}

// getDirection parses "left" or "right" at argument index i.
func getDirection(pos Pos, line string, fields []field, i int, at func(field) Pos) (ir.Direction, *ParseError) {
	if i >= len(fields) || fields[i].keyword() == "" {
		return ir.Left, newError(ErrMissingParameter, pos, line, "missing direction")
	}
	dir, err := ir.ParseDirection(fields[i].keyword())
	if err != nil {
		return ir.Left, newError(ErrInvalidDirection, at(fields[i]), line, "%v", err)
	}
	return dir, nil
}

// getReplacements parses every "from -> to" pair starting at argument index i.
// One space on each side of the arrow belongs to the arrow, so "  -> a"
// replaces a space.
func getReplacements(line string, fields []field, i int, at func(field) Pos) ([]ir.Replacement, *ParseError) {
	var out []ir.Replacement
	for _, f := range fields[min(i, len(fields)):] {
		from, to, ok := strings.Cut(f.text, "->")
		if !ok {
			return nil, newError(ErrBadReplacement, at(f), line, "expected \"from -> to\", got %q", f.text)
		}
		from = strings.TrimSuffix(from, " ")
		to = strings.TrimPrefix(to, " ")
		if utf8.RuneCountInString(from) != 1 || utf8.RuneCountInString(to) != 1 {
			return nil, newError(ErrBadReplacementChar, at(f), line, "replacement sides must be one symbol each, got %q", f.text)
		}
		fr, _ := utf8.DecodeRuneInString(from)
		tr, _ := utf8.DecodeRuneInString(to)
		out = append(out, ir.Replacement{From: ir.Symbol(fr), To: ir.Symbol(tr)})
	}
	return out, nil
}

// splitFields splits a line on ", " and records the 1-based column where
// each token begins. Leading indentation is dropped; tokens are not
// trimmed, so a space or a comma can be a symbol. A token never starts with
// the separator: in "a, , -> b" the second token is ", -> b".
func splitFields(text string) []field {
	trimmed := strings.TrimLeft(text, " \t")
	col := 1 + utf8.RuneCountInString(text[:len(text)-len(trimmed)])
	text = strings.TrimSuffix(trimmed, "\r")

	var fields []field
	for {
		i := strings.Index(text, separator)
		if i == 0 {
			if j := strings.Index(text[1:], separator); j >= 0 {
				i = j + 1
			} else {
				i = -1
			}
		}
		if i < 0 {
			return append(fields, field{text: text, col: col})
		}
		fields = append(fields, field{text: text[:i], col: col})
		col += utf8.RuneCountInString(text[:i]) + len(separator)
		text = text[i+len(separator):]
	}
}

// Describe renders a program back to its canonical source form.
func Describe(p *ir.Program) string {
	var b strings.Builder
	for _, inst := range p.Instructions {
		b.WriteString(formatInstruction(inst))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatInstruction(inst ir.Instruction) string {
	switch in := inst.(type) {
	case ir.AlphabetDecl:
		return CmdAlphabet + ", " + ir.NewAlphabet(in.Symbols...).String()
	case ir.MoveToChar:
		return fmt.Sprintf("%s, %s, %c%s", CmdMoveToChar, in.Direction, in.Target, formatReplacements(in.Replacements))
	case ir.BeginLoop:
		return CmdBeginLoop
	case ir.EndLoop:
		return fmt.Sprintf("%s, %s%s", CmdEndLoop, in.Direction, formatReplacements(in.Replacements))
	default:
		panic(fmt.Sprintf("unknown instruction type %T", inst))
	}
}

func formatReplacements(replacements []ir.Replacement) string {
	var b strings.Builder
	for _, r := range replacements {
		b.WriteString(", ")
		b.WriteString(r.String())
	}
	return b.String()
}
