package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tmgen/internal/compiler"
	"github.com/roach88/tmgen/internal/ir"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Strict bool // fail on any conflict or coverage gap
}

// CheckReport is the diagnostics report for one program.
type CheckReport struct {
	File          string              `json:"file"`
	Rows          int                 `json:"rows"`
	StateCount    ir.StateID          `json:"state_count"`
	Halt          ir.StateID          `json:"halt"`
	Halts         bool                `json:"halts"`
	Deterministic bool                `json:"deterministic"`
	Complete      bool                `json:"complete"`
	Conflicts     []compiler.Conflict `json:"conflicts"`
	Gaps          []compiler.Gap      `json:"gaps"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <program-file>",
		Short: "Report table diagnostics",
		Long: `Compile a program and report diagnostics about its table:
the state count, the halt state, conflicting (state, read) pairs and
(state, read) pairs with no row.

A loop followed by another scan produces conflicts at the state the two
share. Those rows are reported, never dropped.

Exit codes:
  0 - Report printed
  1 - --strict and at least one conflict or gap
  2 - Command error (bad program, unreadable file, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 on any conflict or coverage gap")

	return cmd
}

func runCheck(opts *CheckOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout())

	loadResult, loadErrors := LoadProgram(path, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return outputProgramError(formatter, loadErrors[0])
	}

	result := compiler.Compile(loadResult.Program)
	report := CheckReport{
		File:          path,
		Rows:          len(result.Rows),
		StateCount:    result.StateCount,
		Halt:          result.Halt,
		Halts:         result.Halts,
		Deterministic: result.Deterministic(),
		Complete:      result.Complete(),
		Conflicts:     result.Conflicts,
		Gaps:          result.Gaps,
	}

	for _, c := range result.Conflicts {
		formatter.log().Warn("conflicting rows", "file", path, "state", c.State, "read", c.Read.String(), "rows", len(c.Rows))
	}

	strict := opts.Settings.Strict
	if cmd.Flags().Changed("strict") {
		strict = opts.Strict
	}
	if err := outputCheckReport(formatter, report); err != nil {
		return err
	}
	if strict && !(report.Deterministic && report.Complete) {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s: %d conflict(s), %d gap(s)",
			ErrCodeDiagnostics, path, len(report.Conflicts), len(report.Gaps)))
	}
	return nil
}

func outputCheckReport(formatter *OutputFormatter, report CheckReport) error {
	if formatter.JSON() {
		return formatter.Success(report)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s: %d row(s), %d state(s)\n", report.File, report.Rows, report.StateCount)
	if report.Halts {
		fmt.Fprintf(w, "Halt state: %d\n", report.Halt)
	} else {
		fmt.Fprintln(w, "Halt state: none (the last state has rows)")
	}

	fmt.Fprintf(w, "Conflicts: %d\n", len(report.Conflicts))
	for _, c := range report.Conflicts {
		fmt.Fprintf(w, "  %s\n", c)
		for _, r := range c.Rows {
			fmt.Fprintf(w, "    %s\n", r)
		}
	}

	fmt.Fprintf(w, "Coverage gaps: %d\n", len(report.Gaps))
	for _, g := range report.Gaps {
		fmt.Fprintf(w, "  %s\n", g)
	}
	return nil
}
