package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	scanProgram = "alphabet, ab\nmove_to_char, right, -\n"
	scanTable   = "(0,a,0,a,>)\n(0,b,0,b,>)\n(0,-,1,-,<)\n"

	// A loop followed by another scan: the scan reuses the jump-back state.
	conflictProgram = "alphabet, ab\nbegin_loop\nmove_to_char, right, b\nend_loop, left\nmove_to_char, right, -\n"

	// Closing a loop last leaves the jump-back state without a blank row.
	openEndedProgram = "alphabet, ab\nbegin_loop\nmove_to_char, right, b\nend_loop, right\n"
)

// writeFile writes content to name inside a fresh temp dir.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
