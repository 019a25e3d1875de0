package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/roach88/tmgen/internal/ir"
	"github.com/roach88/tmgen/internal/parser"
)

// LoadMode controls how errors are handled during program loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains a loaded program and facts about its source.
type LoadResult struct {
	Program *ir.Program
	Lines   int // Number of source lines read
}

// LoadError represents a failure to reach the program source at all.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadProgram reads and parses a program file.
// If mode is LoadModeFailFast, returns on the first front-end error.
// If mode is LoadModeCollectAll, every bad line is reported.
//
// A nil result with errors means nothing usable was loaded. Front-end
// errors are *parser.ParseError; path errors are *LoadError.
func LoadProgram(path string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("program file not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing program file: %v", err)}}
	}
	if info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("is a directory: %s", path)}}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&LoadError{Code: parser.ErrReadFailed, Message: fmt.Sprintf("could not read %s: %v", path, err)}}
	}
	lines := bytes.Count(content, []byte("\n"))
	if len(content) > 0 && content[len(content)-1] != '\n' {
		lines++
	}

	if mode == LoadModeCollectAll {
		if perrs := parser.Validate(path, bytes.NewReader(content)); len(perrs) > 0 {
			errs := make([]error, len(perrs))
			for i, perr := range perrs {
				errs[i] = perr
			}
			return nil, errs
		}
	}

	prog, err := parser.Parse(path, bytes.NewReader(content))
	if err != nil {
		return nil, []error{err}
	}
	return &LoadResult{Program: prog, Lines: lines}, nil
}

// errorCode extracts the code and message from a load or front-end error.
func errorCode(err error) (string, string) {
	if perr, ok := err.(*parser.ParseError); ok {
		return perr.Code, perr.Message
	}
	if lerr, ok := err.(*LoadError); ok {
		return lerr.Code, lerr.Message
	}
	if code := parser.CodeOf(err); code != "" {
		return code, err.Error()
	}
	return ErrCodeGeneric, err.Error()
}

// Error code constants shared by CLI commands. Front-end errors use the
// parser's E2xx codes.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeScanError      = "E002" // Directory scan error
	ErrCodeNotFound       = "E005" // Path not found
	ErrCodeWriteFailed    = "E007" // File write error
	ErrCodeStoreFailed    = "E008" // Archive open/read/write error
	ErrCodeBadTable       = "E009" // Malformed quintuple table
	ErrCodeNondeterminism = "E010" // Archived table differs from a fresh compilation
	ErrCodeDiagnostics    = "E011" // Conflicts or coverage gaps under --strict
	ErrCodeTestFailed     = "E012" // One or more scenarios failed
)
