package ir

import (
	"fmt"
	"strings"
)

// Blank is the reserved blank tape symbol.
// It is always readable and writable but never part of a declared alphabet.
const Blank Symbol = '-'

// Symbol is a single tape character.
type Symbol rune

func (s Symbol) String() string {
	return string(s)
}

// Direction is a head movement.
type Direction int

const (
	Left Direction = iota
	Right
)

// Opposite returns the other direction. Opposite(Opposite(d)) == d.
func (d Direction) Opposite() Direction {
	if d == Left {
		return Right
	}
	return Left
}

// Arrow renders the direction as it appears in a quintuple: "<" or ">".
func (d Direction) Arrow() string {
	if d == Left {
		return "<"
	}
	return ">"
}

// String renders the direction keyword used in programs.
func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// ParseDirection parses a program direction keyword ("left" or "right").
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return Left, fmt.Errorf("invalid direction %q: must be left or right", s)
	}
}

// ParseArrow parses a quintuple movement ("<" or ">").
func ParseArrow(s string) (Direction, error) {
	switch s {
	case "<":
		return Left, nil
	case ">":
		return Right, nil
	default:
		return Left, fmt.Errorf("invalid movement %q: must be < or >", s)
	}
}

// Alphabet is the ordered set of declared symbols.
// The zero value is an empty alphabet. An Alphabet is never mutated after
// construction.
type Alphabet struct {
	symbols []Symbol
}

// NewAlphabet builds an alphabet from symbols in declaration order.
// Callers are expected to pass distinct, non-blank symbols; the front-end
// enforces this before the generator runs.
func NewAlphabet(symbols ...Symbol) Alphabet {
	return Alphabet{symbols: append([]Symbol(nil), symbols...)}
}

// AlphabetOf builds an alphabet from the runes of s.
func AlphabetOf(s string) Alphabet {
	var symbols []Symbol
	for _, r := range s {
		symbols = append(symbols, Symbol(r))
	}
	return Alphabet{symbols: symbols}
}

// Symbols returns a copy of the declared symbols in order.
func (a Alphabet) Symbols() []Symbol {
	return append([]Symbol(nil), a.symbols...)
}

// Len returns the number of declared symbols (blank excluded).
func (a Alphabet) Len() int {
	return len(a.symbols)
}

// Contains reports whether s was declared.
func (a Alphabet) Contains(s Symbol) bool {
	for _, sym := range a.symbols {
		if sym == s {
			return true
		}
	}
	return false
}

// WithBlank returns the full readable symbol space: declared symbols then Blank.
func (a Alphabet) WithBlank() []Symbol {
	return append(a.Symbols(), Blank)
}

func (a Alphabet) String() string {
	var b strings.Builder
	for _, s := range a.symbols {
		b.WriteRune(rune(s))
	}
	return b.String()
}

// Replacement rewrites From into To while scanning.
type Replacement struct {
	From Symbol `json:"from"`
	To   Symbol `json:"to"`
}

func (r Replacement) String() string {
	return fmt.Sprintf("%c -> %c", r.From, r.To)
}

// LookupReplacement returns the first replacement whose From is s.
// Duplicate sources resolve first-match-wins.
func LookupReplacement(replacements []Replacement, s Symbol) (Replacement, bool) {
	for _, r := range replacements {
		if r.From == s {
			return r, true
		}
	}
	return Replacement{}, false
}

// StateID is a numeric machine state.
type StateID uint32

// Row is one transition quintuple. The set of rows sharing Current forms a
// state in the automaton sense.
type Row struct {
	Current   StateID   `json:"state"`
	Read      Symbol    `json:"read"`
	Next      StateID   `json:"next"`
	Write     Symbol    `json:"write"`
	Direction Direction `json:"move"`
}

// String renders the canonical quintuple form: (current,read,next,write,D).
func (r Row) String() string {
	return fmt.Sprintf("(%d,%c,%d,%c,%s)", r.Current, r.Read, r.Next, r.Write, r.Direction.Arrow())
}
