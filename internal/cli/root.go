package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/roach88/tmgen/internal/config"
	"github.com/roach88/tmgen/internal/logs"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	LogFile    string

	// Settings is the loaded config file, or config.Default. Resolved
	// before any subcommand runs.
	Settings config.Config

	// Logger is built from Verbose and LogFile. Nil means discard.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the tmgen CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Settings: config.Default()}

	cmd := &cobra.Command{
		Use:   "tmgen",
		Short: "tmgen - tape programs to Turing machine quintuples",
		Long: `Compile line-oriented tape programs into single-tape Turing machine
transition tables, one quintuple (state,read,next,write,move) per row.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(cmd); err != nil {
				// Subcommands silence cobra's own error output.
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return err
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to a CUE config file")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "append JSON logs to this file")

	// Add subcommands
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve layers explicit flags over the config file and builds the logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if o.ConfigFile != "" {
		settings, err := config.Load(o.ConfigFile)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		o.Settings = settings
	}

	flags := cmd.Flags()
	if !flags.Changed("format") {
		o.Format = o.Settings.Format
	}
	if !flags.Changed("verbose") {
		o.Verbose = o.Settings.Verbose
	}
	if !flags.Changed("log-file") {
		o.LogFile = o.Settings.LogFile
	}

	// Validate format flag
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	logger, closeLog, err := logs.New(logs.Options{
		Writer:  cmd.ErrOrStderr(),
		Verbose: o.Verbose,
		File:    o.LogFile,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open log file", err)
	}
	atexit.Register(func() { _ = closeLog() })
	o.Logger = logger

	logger.Debug("resolved settings", "format", o.Format, "config", o.ConfigFile, "log_file", o.LogFile)
	return nil
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return logs.Discard()
	}
	return o.Logger
}

// dbPath returns the archive path from the command flag, else from config.
func (o *RootOptions) dbPath(flag string) string {
	if flag != "" {
		return flag
	}
	return o.Settings.DB
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
