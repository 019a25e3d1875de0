package logs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTerminalLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Writer: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.Info("hidden")
	logger.Warn("shown", "state", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "state=3")
}

func TestNewVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Writer: &buf, Verbose: true})
	require.NoError(t, err)
	defer closeFn()

	logger.Debug("details")
	assert.Contains(t, buf.String(), "details")
}

func TestNewFanOutToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "tmgen.log")

	logger, closeFn, err := New(Options{Writer: &buf, File: path})
	require.NoError(t, err)

	logger.Debug("file only", "rows", 5)
	logger.Warn("both")
	require.NoError(t, closeFn())
	require.NoError(t, closeFn(), "second close is a no-op")

	assert.NotContains(t, buf.String(), "file only")
	assert.Contains(t, buf.String(), "both")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "file only", rec["msg"])
	assert.Equal(t, float64(5), rec["rows"])
}

func TestNewBadFile(t *testing.T) {
	_, _, err := New(Options{File: filepath.Join(t.TempDir(), "missing", "x.log")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open log file")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
