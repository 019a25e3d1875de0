package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tmgen/internal/compiler"
	"github.com/roach88/tmgen/internal/ir"
	"github.com/roach88/tmgen/internal/parser"
	"github.com/roach88/tmgen/internal/store"
	"github.com/roach88/tmgen/internal/table"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output   string // output file path
	Database string // archive path; empty means no archiving
}

// CompileOutput is the JSON payload of a successful compile.
type CompileOutput struct {
	File string `json:"file"`
	*compiler.Result
	CompilationID string `json:"compilation_id,omitempty"`
	Output        string `json:"output,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <program-file>",
		Short: "Compile a tape program to quintuples",
		Long: `Compile a tape program into a Turing machine transition table.

Rows are printed in canonical form, one per line:
  (current_state,read,next_state,write,move)

Every (state, read) pair claimed by more than one row is logged as a
warning. The rows are kept as generated.

With --db the compilation is archived. A program already archived with a
different table is a determinism failure (exit code 1).

Examples:
  tmgen compile erase.tm
  tmgen compile erase.tm -o erase.table
  tmgen compile erase.tm --db ./tmgen.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Database, "db", "", "archive the compilation in this SQLite database")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout())
	logger := formatter.log()

	loadResult, loadErrors := LoadProgram(path, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return outputProgramError(formatter, loadErrors[0])
	}
	prog := loadResult.Program
	logger.Debug("loaded program", "file", path, "lines", loadResult.Lines, "instructions", len(prog.Instructions))

	result := compiler.Compile(prog)
	logger.Debug("compiled program", "file", path, "rows", len(result.Rows), "states", result.StateCount)
	for _, c := range result.Conflicts {
		logger.Warn("conflicting rows", "file", path, "state", c.State, "read", c.Read.String(), "rows", len(c.Rows))
	}

	out := CompileOutput{File: path, Result: result, Output: opts.Output}

	if db := opts.dbPath(opts.Database); db != "" {
		id, err := archive(contextOf(cmd), db, prog, result, formatter)
		if err != nil {
			return err
		}
		out.CompilationID = id
	}

	if opts.Output != "" {
		if err := writeTableFile(opts.Output, result.Rows); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
		logger.Debug("wrote table", "path", opts.Output)
	}

	return outputCompileSuccess(formatter, out)
}

// archive stores the compilation and verifies that earlier runs of the same
// program produced the same table.
func archive(ctx context.Context, db string, prog *ir.Program, result *compiler.Result, formatter *OutputFormatter) (string, error) {
	logger := formatter.log()

	st, err := store.Open(db)
	if err != nil {
		return "", formatter.Fail(ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("opening database: %v", err), nil)
	}
	defer st.Close()

	c, err := ir.NewCompilation(prog, parser.Describe(prog), result.Rows, result.StateCount)
	if err != nil {
		return "", formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("hashing compilation: %v", err), nil)
	}

	divergent, err := st.Divergent(ctx, c)
	if err != nil {
		return "", formatter.Fail(ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("reading archive: %v", err), nil)
	}
	if len(divergent) > 0 {
		ids := make([]string, len(divergent))
		for i, d := range divergent {
			ids[i] = d.ID
		}
		return "", formatter.Fail(ExitFailure, ErrCodeNondeterminism,
			fmt.Sprintf("program %s was archived with a different table", c.ProgramHash),
			map[string]any{"table_hash": c.TableHash, "archived": ids})
	}

	id, inserted, err := st.WriteCompilation(ctx, c)
	if err != nil {
		return "", formatter.Fail(ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("archiving compilation: %v", err), nil)
	}
	logger.Debug("archived compilation", "db", db, "id", id, "inserted", inserted, "table_hash", c.TableHash)
	return id, nil
}

// outputCompileSuccess prints the table, or a summary when it went to a file.
func outputCompileSuccess(formatter *OutputFormatter, out CompileOutput) error {
	if formatter.JSON() {
		return formatter.Success(out)
	}

	if out.Output == "" {
		return table.Write(formatter.Writer, out.Rows)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %s: %d row(s), %d state(s)\n",
		out.File, len(out.Rows), out.StateCount)
	if len(out.Conflicts) > 0 {
		fmt.Fprintf(formatter.Writer, "  %d conflicting (state, read) pair(s)\n", len(out.Conflicts))
	}
	if out.CompilationID != "" {
		fmt.Fprintf(formatter.Writer, "Archived as %s\n", out.CompilationID)
	}
	fmt.Fprintf(formatter.Writer, "Wrote table to %s\n", out.Output)
	return nil
}

// outputProgramError reports a load or front-end error.
// Rejected programs are command-level errors (exit code 2).
func outputProgramError(formatter *OutputFormatter, err error) error {
	code, message := errorCode(err)
	var details any
	if perr, ok := err.(*parser.ParseError); ok {
		details = perr
		if !formatter.JSON() {
			fmt.Fprintf(formatter.Writer, "%s\n", perr.Pos)
		}
	}
	return formatter.Fail(ExitCommandError, code, message, details)
}

// writeTableFile writes rows to filename in canonical text form.
func writeTableFile(filename string, rows []ir.Row) error {
	var buf bytes.Buffer
	if err := table.Write(&buf, rows); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
