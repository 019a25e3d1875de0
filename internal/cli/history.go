package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tmgen/internal/ir"
	"github.com/roach88/tmgen/internal/store"
	"github.com/roach88/tmgen/internal/table"
)

// ArchiveOptions holds flags for commands that read the archive.
type ArchiveOptions struct {
	*RootOptions
	Database string
}

// HistoryResult holds the archived compilations, oldest first.
type HistoryResult struct {
	Compilations []ir.Compilation `json:"compilations"`
	Total        int              `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ArchiveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived compilations",
		Long: `List the compilations archived by compile --db, oldest first.

Examples:
  tmgen history --db ./tmgen.db
  tmgen history --db ./tmgen.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (defaults to the config db)")

	return cmd
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ArchiveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <compilation-id>",
		Short: "Print an archived table",
		Long: `Print the table of one archived compilation in canonical form.

Examples:
  tmgen show --db ./tmgen.db 01926d3c-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (defaults to the config db)")

	return cmd
}

// openArchive opens the database named by the flag or config. The archive
// must already exist; reading never creates one.
func openArchive(opts *ArchiveOptions, formatter *OutputFormatter) (*store.Store, error) {
	db := opts.dbPath(opts.Database)
	if db == "" {
		return nil, formatter.Fail(ExitCommandError, ErrCodeNotFound, "no database: pass --db or set db in the config file", nil)
	}
	if !fileExists(db) {
		return nil, formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", db), nil)
	}

	st, err := store.Open(db)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("opening database: %v", err), nil)
	}
	formatter.log().Debug("opened archive", "db", db)
	return st, nil
}

func runHistory(opts *ArchiveOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout())

	st, err := openArchive(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	list, err := st.ListCompilations(contextOf(cmd))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("listing compilations: %v", err), nil)
	}

	if formatter.JSON() {
		return formatter.Success(HistoryResult{Compilations: list, Total: len(list)})
	}

	w := formatter.Writer
	if len(list) == 0 {
		fmt.Fprintln(w, "No compilations archived.")
		return nil
	}
	for _, c := range list {
		fmt.Fprintf(w, "%4d  %s  %s  %d state(s)  table %s\n",
			c.Seq, c.ID, c.ProgramName, c.StateCount, shortHash(c.TableHash))
	}
	fmt.Fprintf(w, "\n%d compilation(s)\n", len(list))
	return nil
}

func runShow(opts *ArchiveOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout())

	st, err := openArchive(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	c, err := st.ReadCompilation(contextOf(cmd), id)
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("compilation not found: %s", id), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("reading compilation: %v", err), nil)
	}

	if formatter.JSON() {
		return formatter.Success(c)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "# %s (%s)\n", c.ProgramName, c.ID)
	fmt.Fprintf(w, "# alphabet %s, %d state(s), table %s\n", c.Alphabet, c.StateCount, shortHash(c.TableHash))
	return table.Write(w, c.Rows)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
