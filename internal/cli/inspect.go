package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tmgen/internal/table"
)

// InspectResult is the JSON payload of inspect.
type InspectResult struct {
	File string `json:"file"`
	table.Summary
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <table-file>",
		Short: "Summarize a quintuple table",
		Long: `Read a table of (state,read,next,write,move) quintuples, such as the
output of compile, and summarize its rows, states, symbols and moves.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout())

	f, err := os.Open(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("table file not found: %s", path), nil)
	}
	defer f.Close()

	rows, err := table.Read(f)
	if err != nil {
		var rerr *table.ReadError
		if errors.As(err, &rerr) {
			return formatter.Fail(ExitCommandError, ErrCodeBadTable, fmt.Sprintf("%s: %s", path, rerr.Error()), rerr)
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	result := InspectResult{File: path, Summary: table.Summarize(rows)}
	if formatter.JSON() {
		return formatter.Success(result)
	}

	symbols := make([]string, len(result.Symbols))
	for i, s := range result.Symbols {
		symbols[i] = s.String()
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  Rows:    %d\n", result.Rows)
	fmt.Fprintf(w, "  States:  %d (highest %d)\n", result.States, result.MaxState)
	fmt.Fprintf(w, "  Symbols: %s\n", strings.Join(symbols, " "))
	fmt.Fprintf(w, "  Moves:   %d left, %d right\n", result.LeftMoves, result.RightMoves)
	return nil
}
