package table

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/roach88/tmgen/internal/ir"
)

// ReadError reports a malformed table line.
type ReadError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Read parses a quintuple table. Blank lines are skipped and each row may
// be surrounded by whitespace. Space and comma symbols written by Write are
// read back. Rows are returned in input order.
func Read(r io.Reader) ([]ir.Row, error) {
	var rows []ir.Row
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		row, err := parseRow(text)
		if err != nil {
			return nil, &ReadError{Line: line, Message: err.Error()}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	return rows, nil
}

// ReadString parses a table held in memory.
func ReadString(s string) ([]ir.Row, error) {
	return Read(strings.NewReader(s))
}

func parseRow(text string) (ir.Row, error) {
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") || len(text) < 2 {
		return ir.Row{}, fmt.Errorf("expected a parenthesized quintuple, got %q", text)
	}
	inner := text[1 : len(text)-1]
	parts := strings.Split(inner, ",")
	if len(parts) == 5 {
		return rowFromFields(parts[0], parts[1], parts[2], parts[3], parts[4])
	}
	// A comma symbol adds one extra part per comma.
	if len(parts) <= 7 {
		if row, ok := splitCommaSymbols(inner); ok {
			return row, nil
		}
	}
	return ir.Row{}, fmt.Errorf("expected 5 fields, got %d in %q", len(parts), text)
}

// splitCommaSymbols finds the one reading of inner where the second and
// fourth fields are single symbols, either of which may be a comma.
func splitCommaSymbols(inner string) (ir.Row, bool) {
	first := strings.Index(inner, ",")
	last := strings.LastIndex(inner, ",")
	if first < 0 || first == last {
		return ir.Row{}, false
	}
	middle := inner[first+1 : last]
	for i := 0; i < len(middle); i++ {
		if middle[i] != ',' {
			continue
		}
		for j := i + 1; j < len(middle); j++ {
			if middle[j] != ',' {
				continue
			}
			row, err := rowFromFields(inner[:first], middle[:i], middle[i+1:j], middle[j+1:], inner[last+1:])
			if err == nil {
				return row, true
			}
		}
	}
	return ir.Row{}, false
}

func rowFromFields(curText, readText, nextText, writeText, moveText string) (ir.Row, error) {
	cur, err := parseState(curText)
	if err != nil {
		return ir.Row{}, err
	}
	read, err := parseSymbol(readText)
	if err != nil {
		return ir.Row{}, err
	}
	next, err := parseState(nextText)
	if err != nil {
		return ir.Row{}, err
	}
	write, err := parseSymbol(writeText)
	if err != nil {
		return ir.Row{}, err
	}
	dir, err := ir.ParseArrow(strings.TrimSpace(moveText))
	if err != nil {
		return ir.Row{}, err
	}
	return ir.Row{Current: cur, Read: read, Next: next, Write: write, Direction: dir}, nil
}

func parseState(s string) (ir.StateID, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid state %q", s)
	}
	return ir.StateID(n), nil
}

// parseSymbol takes a one-rune field as is, so a space is a symbol.
// Longer fields are trimmed first.
func parseSymbol(s string) (ir.Symbol, error) {
	if utf8.RuneCountInString(s) != 1 {
		s = strings.TrimSpace(s)
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid symbol %q: must be one character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return ir.Symbol(r), nil
}
