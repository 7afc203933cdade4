package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/evolve/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	LogMode string // "dev" | "prod"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidLogModes defines the allowed log modes.
var ValidLogModes = []string{logging.ModeDevelopment, logging.ModeProduction}

// NewRootCommand creates the root command for the evolve CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "evolve - versioned wire schemas",
		Long:  "Inspect chain manifests, tagged documents and document stores of versioned wire schemas.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !slices.Contains(ValidLogModes, opts.LogMode) {
				return fmt.Errorf("invalid log mode %q: must be one of %v", opts.LogMode, ValidLogModes)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogMode, "log-mode", logging.ModeDevelopment, "log encoding on stderr (dev|prod)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTagCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newFormatter builds the printer for a command. Verbose logs go to
// stderr to avoid corrupting JSON.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *Printer {
	return &Printer{
		JSON:    opts.Format == "json",
		Out:     cmd.OutOrStdout(),
		Diag:    cmd.ErrOrStderr(),
		Verbose: opts.Verbose,
	}
}

// newLogger returns the structured logger for library calls made by a command.
// Logs go to stderr so JSON output on stdout stays parseable.
func newLogger(opts *RootOptions, cmd *cobra.Command) *logging.Logger {
	return logging.New(opts.LogMode, cmd.ErrOrStderr(), opts.Verbose)
}
