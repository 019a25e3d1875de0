// Package logs builds the process logger.
//
// Records fan out to a text handler on the terminal writer and, when a log
// file is configured, a JSON handler on that file.
package logs

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Options configures New.
type Options struct {
	Writer  io.Writer // terminal output, usually os.Stderr
	Verbose bool      // debug level on the terminal instead of warn
	File    string    // optional JSON log file, appended to
}

// New returns a logger and a close function for any file it opened.
// The close function is safe to call more than once.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	if opts.Verbose {
		level.Set(slog.LevelDebug)
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
	}

	closeFn := func() error { return nil }
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		// The file always records debug detail.
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))

		closed := false
		closeFn = func() error {
			if closed {
				return nil
			}
			closed = true
			return f.Close()
		}
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeFn, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
