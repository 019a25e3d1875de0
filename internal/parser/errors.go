package parser

import (
	"errors"
	"fmt"
)

// Front-end error codes (E200-E299). Every code is fatal to the whole run.
const (
	ErrUnknownCommand     = "E201" // command name not recognized
	ErrMissingParameter   = "E202" // required argument absent or empty
	ErrOnlyOneLetter      = "E203" // multi-character token where one symbol is required
	ErrBadReplacement     = "E204" // replacement without "->"
	ErrBadReplacementChar = "E205" // replacement side is not exactly one symbol
	ErrInvalidDirection   = "E206" // direction is not left or right
	ErrDuplicateAlphabet  = "E207" // second alphabet declaration
	ErrNoAlphabet         = "E208" // first instruction is not an alphabet
	ErrEmptyProgram       = "E209" // no instructions at all
	ErrUnmatchedEndLoop   = "E210" // end_loop with no open begin_loop
	ErrNestedLoop         = "E211" // begin_loop while a loop is already open
	ErrUnclosedLoop       = "E212" // begin_loop never closed
	ErrDuplicateSymbol    = "E213" // alphabet declares a symbol twice
	ErrBlankInAlphabet    = "E214" // alphabet declares the reserved blank
	ErrUnexpectedArgument = "E215" // argument given to a command that takes none
	ErrReadFailed         = "E216" // input could not be opened or read
)

// Pos is a position in program source. Line and Column are 1-based;
// a zero Line means the error applies to the whole input.
type Pos struct {
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// IsValid reports whether the position points at a line.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	name := p.Filename
	if name == "" {
		name = "<input>"
	}
	if !p.IsValid() {
		return name
	}
	if p.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", name, p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d", name, p.Line)
}

// ParseError represents a front-end error with source position.
type ParseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Pos     Pos    `json:"pos"`
	Text    string `json:"text,omitempty"` // offending line, trimmed
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Code, e.Message)
}

// CodeOf returns the front-end error code carried by err, or "" if err is
// not a *ParseError. Uses errors.As to handle wrapped errors.
func CodeOf(err error) string {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

func newError(code string, pos Pos, text, format string, args ...any) *ParseError {
	return &ParseError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
		Text:    text,
	}
}
