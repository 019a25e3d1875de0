// Package testutil holds fixtures shared by package tests.
//
// Every helper fails the test on bad input, so fixtures stay one line.
package testutil

import (
	"testing"

	"github.com/roach88/tmgen/internal/compiler"
	"github.com/roach88/tmgen/internal/ir"
	"github.com/roach88/tmgen/internal/parser"
	"github.com/roach88/tmgen/internal/table"
)

// MustParse parses program source or fails the test.
func MustParse(t testing.TB, src string) *ir.Program {
	t.Helper()
	p, err := parser.ParseString(t.Name()+".tm", src)
	if err != nil {
		t.Fatalf("parse program: %v", err)
	}
	return p
}

// MustRows reads canonical quintuple text or fails the test.
func MustRows(t testing.TB, text string) []ir.Row {
	t.Helper()
	rows, err := table.ReadString(text)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	return rows
}

// Compilation compiles src and returns the archive record for it, with ID
// and Seq left for the store.
func Compilation(t testing.TB, src string) ir.Compilation {
	t.Helper()
	p := MustParse(t, src)
	res := compiler.Compile(p)
	c, err := ir.NewCompilation(p, parser.Describe(p), res.Rows, res.StateCount)
	if err != nil {
		t.Fatalf("build compilation: %v", err)
	}
	return c
}
