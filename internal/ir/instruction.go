package ir

import (
	"fmt"
	"strings"
)

// Instruction is one validated program step.
//
// The set of implementations is closed: AlphabetDecl, MoveToChar, BeginLoop
// and EndLoop. Consumers switch on the concrete type and must handle all four.
type Instruction interface {
	fmt.Stringer
	instruction()
}

// AlphabetDecl declares the alphabet. It occurs exactly once, first.
type AlphabetDecl struct {
	Symbols []Symbol
}

// MoveToChar scans in Direction, rewriting per Replacements, until Target is read.
type MoveToChar struct {
	Direction    Direction
	Target       Symbol
	Replacements []Replacement
}

// BeginLoop opens a repeatable block.
type BeginLoop struct{}

// EndLoop closes the open block and returns control to its entry state.
type EndLoop struct {
	Direction    Direction
	Replacements []Replacement
}

func (AlphabetDecl) instruction() {}
func (MoveToChar) instruction()   {}
func (BeginLoop) instruction()    {}
func (EndLoop) instruction()      {}

func (a AlphabetDecl) String() string {
	return "alphabet: " + NewAlphabet(a.Symbols...).String()
}

func (m MoveToChar) String() string {
	return fmt.Sprintf("move to char %c on the %s%s", m.Target, m.Direction, describeReplacements(m.Replacements))
}

func (BeginLoop) String() string {
	return "begin loop"
}

func (e EndLoop) String() string {
	return fmt.Sprintf("end loop moving %s%s", e.Direction, describeReplacements(e.Replacements))
}

func describeReplacements(replacements []Replacement) string {
	var b strings.Builder
	for _, r := range replacements {
		fmt.Fprintf(&b, ", replacing %c with %c", r.From, r.To)
	}
	return b.String()
}

// Program is a validated instruction sequence together with its alphabet.
// Instructions[0] is always the AlphabetDecl that produced Alphabet.
type Program struct {
	Name         string
	Alphabet     Alphabet
	Instructions []Instruction
}
