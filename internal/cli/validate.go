package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tmgen/internal/parser"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	File   string               `json:"file"`
	Valid  bool                 `json:"valid"`
	Errors []*parser.ParseError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <program-file>",
		Short: "Check a program without compiling it",
		Long: `Check a tape program for front-end errors without generating a table.

Unlike compile, validate does not stop at the first bad line: every error
in the file is reported with its line and column.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout())

	loadResult, loadErrors := LoadProgram(path, LoadModeCollectAll)

	// Path errors mean there was nothing to validate.
	var loadErr *LoadError
	if len(loadErrors) > 0 && errors.As(loadErrors[0], &loadErr) {
		return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
	}

	if len(loadErrors) > 0 {
		perrs := make([]*parser.ParseError, 0, len(loadErrors))
		for _, err := range loadErrors {
			var perr *parser.ParseError
			if errors.As(err, &perr) {
				perrs = append(perrs, perr)
			}
		}
		return outputValidationErrors(formatter, path, perrs)
	}

	formatter.log().Debug("validated program", "file", path, "lines", loadResult.Lines,
		"instructions", len(loadResult.Program.Instructions))
	return outputValidateSuccess(formatter, path)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, path string) error {
	if formatter.JSON() {
		return formatter.Success(ValidationResult{File: path, Valid: true})
	}

	fmt.Fprintf(formatter.Writer, "✓ %s is valid\n", path)
	return nil
}

// outputValidationErrors outputs every front-end error found.
func outputValidationErrors(formatter *OutputFormatter, path string, errs []*parser.ParseError) error {
	if formatter.JSON() {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				File:   path,
				Valid:  false,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (check failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "%s\n", err.Pos)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", err.Code, err.Message)
		if err.Text != "" {
			fmt.Fprintf(formatter.Writer, "  | %s\n", err.Text)
		}
		fmt.Fprintln(formatter.Writer)
	}

	// Validation failures = exit code 1 (check failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
