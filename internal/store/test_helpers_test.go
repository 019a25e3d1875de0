package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/tmgen/internal/ir"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestCompilation creates a compilation with fake hashes and a few rows.
func createTestCompilation(programHash, tableHash string) ir.Compilation {
	return ir.Compilation{
		ProgramName:      "test.tm",
		ProgramHash:      programHash,
		TableHash:        tableHash,
		Alphabet:         "ab",
		StateCount:       1,
		GeneratorVersion: ir.GeneratorVersion,
		Source:           "alphabet, ab\nmove_to_char, right, -\n",
		Rows: []ir.Row{
			{Current: 0, Read: 'a', Next: 0, Write: 'a', Direction: ir.Right},
			{Current: 0, Read: 'b', Next: 0, Write: 'b', Direction: ir.Right},
			{Current: 0, Read: '-', Next: 1, Write: '-', Direction: ir.Left},
		},
	}
}
