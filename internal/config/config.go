// Package config loads tmgen settings from a CUE file.
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// schema closes the accepted fields; unknown fields are errors.
const schema = `close({
	format?:   "text" | "json"
	verbose?:  bool
	db?:       string
	log_file?: string
	strict?:   bool
})`

// Config holds settings that flags may override.
type Config struct {
	Format  string `json:"format"`
	Verbose bool   `json:"verbose"`
	DB      string `json:"db"`
	LogFile string `json:"log_file"`
	Strict  bool   `json:"strict"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{Format: "text"}
}

// Error is a config file error with CUE position info.
type Error struct {
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: config: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return "config: " + e.Message
}

// Load reads path, validates it against the schema and returns the settings
// layered over Default.
func Load(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &Error{Message: fmt.Sprintf("read %s: %v", path, err)}
	}
	return Parse(path, content)
}

// Parse is Load for content already in memory. filename is used in errors.
func Parse(filename string, content []byte) (Config, error) {
	ctx := cuecontext.New()

	s := ctx.CompileString(schema)
	if err := s.Err(); err != nil {
		return Config{}, fmt.Errorf("config schema: %w", err)
	}

	value := ctx.CompileBytes(content, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}

	unified := s.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return Config{}, formatCUEError(err)
	}
	if cfg.Format == "" {
		cfg.Format = Default().Format
	}
	return cfg, nil
}

// formatCUEError extracts position info from the first CUE error.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{Message: err.Error()}
	}

	first := errs[0]
	e := &Error{Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		e.Pos = positions[0]
	}
	return e
}
