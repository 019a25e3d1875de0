package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tmgen/internal/parser"
)

func TestCompileCommandText(t *testing.T) {
	program := writeFile(t, "scan.tm", scanProgram)

	stdout, stderr, err := execute(t, "compile", program)
	require.NoError(t, err)
	assert.Equal(t, scanTable, stdout)
	assert.Empty(t, stderr)
}

func TestCompileCommandJSON(t *testing.T) {
	program := writeFile(t, "scan.tm", scanProgram)

	stdout, _, err := execute(t, "--format", "json", "compile", program)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			File       string `json:"file"`
			StateCount int    `json:"state_count"`
			Halts      bool   `json:"halts"`
			Rows       []struct {
				State int    `json:"state"`
				Read  string `json:"read"`
				Next  int    `json:"next"`
				Write string `json:"write"`
				Move  string `json:"move"`
			} `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, program, resp.Data.File)
	assert.Equal(t, 1, resp.Data.StateCount)
	assert.True(t, resp.Data.Halts)
	require.Len(t, resp.Data.Rows, 3)
	assert.Equal(t, "-", resp.Data.Rows[2].Read)
	assert.Equal(t, "<", resp.Data.Rows[2].Move)
	assert.Equal(t, 1, resp.Data.Rows[2].Next)
}

func TestCompileCommandJSONEmptyDiagnostics(t *testing.T) {
	program := writeFile(t, "scan.tm", scanProgram)

	stdout, _, err := execute(t, "--format", "json", "compile", program)
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Conflicts json.RawMessage `json:"conflicts"`
			Gaps      json.RawMessage `json:"gaps"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.JSONEq(t, "[]", string(resp.Data.Conflicts))
	assert.JSONEq(t, "[]", string(resp.Data.Gaps))
}

func TestCompileCommandOutputFile(t *testing.T) {
	program := writeFile(t, "scan.tm", scanProgram)
	out := filepath.Join(t.TempDir(), "scan.table")

	stdout, _, err := execute(t, "compile", program, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Compiled")
	assert.Contains(t, stdout, "3 row(s), 1 state(s)")
	assert.Contains(t, stdout, "Wrote table to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, scanTable, string(data))
}

func TestCompileCommandWarnsOnConflicts(t *testing.T) {
	program := writeFile(t, "conflict.tm", conflictProgram)

	stdout, stderr, err := execute(t, "compile", program)
	require.NoError(t, err, "conflicts are diagnostics, not errors")
	assert.Contains(t, stdout, "(1,a,0,a,<)")
	assert.Contains(t, stdout, "(1,a,1,a,>)")
	assert.Contains(t, stderr, "level=WARN")
	assert.Contains(t, stderr, "conflicting rows")
	assert.Contains(t, stderr, "state=1")
}

func TestCompileCommandParseError(t *testing.T) {
	program := writeFile(t, "bad.tm", "alphabet, ab\nend_loop, left\n")

	stdout, _, err := execute(t, "compile", program)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), parser.ErrUnmatchedEndLoop)
	assert.Contains(t, stdout, "Error [E210]")
	assert.Contains(t, stdout, program+":2")
}

func TestCompileCommandParseErrorJSON(t *testing.T) {
	program := writeFile(t, "bad.tm", "move_to_char, right, -\n")

	stdout, _, err := execute(t, "--format", "json", "compile", program)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, parser.ErrNoAlphabet, resp.Error.Code)
	assert.NotNil(t, resp.Error.Details)
}

func TestCompileCommandMissingFile(t *testing.T) {
	stdout, _, err := execute(t, "compile", filepath.Join(t.TempDir(), "nope.tm"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E005]")
}

func TestCompileCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, "compile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestCompileCommandArchives(t *testing.T) {
	program := writeFile(t, "scan.tm", scanProgram)
	db := filepath.Join(t.TempDir(), "tmgen.db")

	stdout, _, err := execute(t, "--format", "json", "compile", program, "--db", db)
	require.NoError(t, err)
	var first struct {
		Data CompileOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &first))
	require.NotEmpty(t, first.Data.CompilationID)

	// Recompiling the same program hits the archived record.
	stdout, _, err = execute(t, "--format", "json", "compile", program, "--db", db)
	require.NoError(t, err)
	var second struct {
		Data CompileOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &second))
	assert.Equal(t, first.Data.CompilationID, second.Data.CompilationID)
}

func TestCompileCommandDetectsDivergentArchive(t *testing.T) {
	program := writeFile(t, "scan.tm", scanProgram)
	db := filepath.Join(t.TempDir(), "tmgen.db")

	_, _, err := execute(t, "compile", program, "--db", db)
	require.NoError(t, err)

	// Tamper with the archived table so it no longer matches.
	st := openTestArchive(t, db)
	_, err = st.DB().Exec(`UPDATE compilations SET table_hash = 'stale'`)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	stdout, _, err := execute(t, "compile", program, "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E010]")
}

func TestWriteTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.table")
	require.NoError(t, writeTableFile(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	err = writeTableFile(filepath.Join(t.TempDir(), "missing", "x.table"), nil)
	require.Error(t, err)
}
