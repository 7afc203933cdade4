package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/evolve/internal/batch"
	"github.com/roach88/evolve/internal/manifest"
	"github.com/roach88/evolve/internal/store"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Database string
	Kind     string // optional - all kinds when empty
	Current  string // current tag for every kind
	Manifest string // manifest directory; each kind's chain supplies its current tag
	Strict   bool
}

// StatsResult holds the analysis of every requested kind.
type StatsResult struct {
	Kinds []batch.Analysis `json:"kinds"`
	Total int              `json:"total"`
	Stale int              `json:"stale"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report the version distribution of stored documents",
		Long: `Count the documents of each kind per version tag and report how many
are stale, i.e. not at the current version.

The current tag comes from --current, or from the chain named like the kind
in the manifests under --manifest.

Exit codes:
  0 - Report written
  1 - Stale documents found with --strict
  2 - Command error (database not found, kind missing from manifest, etc.)

Examples:
  evolve stats --db ./docs.db --current 3
  evolve stats --db ./docs.db --manifest ./chains --kind Profile
  evolve stats --db ./docs.db --manifest ./chains --strict --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "report this kind only")
	cmd.Flags().StringVar(&opts.Current, "current", "", "current version tag")
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "manifest directory providing current tags")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 when stale documents exist")
	cmd.MarkFlagsMutuallyExclusive("current", "manifest")
	cmd.MarkFlagsOneRequired("current", "manifest")

	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)

	if _, err := os.Stat(opts.Database); err != nil {
		_ = formatter.Fail(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
		return Exitf(ExitCommandError, "database not found: %w", err)
	}

	currentTag, err := currentTagResolver(opts)
	if err != nil {
		code := ErrCodeGeneric
		var loadErr *manifest.LoadError
		if errors.As(err, &loadErr) {
			code = loadErr.Code
		}
		_ = formatter.Fail(code, err.Error(), nil)
		return Exitf(ExitCommandError, "failed to load manifests: %w", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Fail(ErrCodeStore, err.Error(), nil)
		return Exitf(ExitCommandError, "failed to open database: %w", err)
	}
	defer st.Close()

	kinds := []string{opts.Kind}
	if opts.Kind == "" {
		kinds, err = st.Kinds(ctx)
		if err != nil {
			_ = formatter.Fail(ErrCodeStore, err.Error(), nil)
			return Exitf(ExitCommandError, "failed to list kinds: %w", err)
		}
	}

	log := newLogger(opts.RootOptions, cmd)
	defer log.Sync()
	migrator := batch.New(st, log)

	result := StatsResult{Kinds: []batch.Analysis{}}
	for _, kind := range kinds {
		current, ok := currentTag(kind)
		if !ok {
			msg := fmt.Sprintf("no chain named %q in %s", kind, opts.Manifest)
			_ = formatter.Fail(ErrCodeNoChain, msg, nil)
			return Exitf(ExitCommandError, "%s", msg)
		}
		formatter.Logf("Analyzing %s against current tag %q", kind, current)

		a, err := migrator.Analyze(ctx, kind, current)
		if err != nil {
			_ = formatter.Fail(ErrCodeStore, err.Error(), nil)
			return Exitf(ExitCommandError, "failed to analyze documents: %w", err)
		}
		result.Kinds = append(result.Kinds, a)
		result.Total += a.Total
		result.Stale += a.Stale
	}

	if err := outputStats(formatter, result); err != nil {
		return err
	}
	if opts.Strict && result.Stale > 0 {
		return Exitf(ExitFailure, "%s: %d stale document(s)", ErrCodeStale, result.Stale)
	}
	return nil
}

// currentTagResolver returns a lookup from kind to current tag.
func currentTagResolver(opts *StatsOptions) (func(kind string) (string, bool), error) {
	if opts.Manifest == "" {
		return func(string) (string, bool) { return opts.Current, true }, nil
	}

	loaded, errs := manifest.Load(opts.Manifest, manifest.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return func(kind string) (string, bool) {
		m, ok := loaded.Lookup(kind)
		if !ok {
			return "", false
		}
		return m.CurrentTag(), true
	}, nil
}

func outputStats(formatter *Printer, result StatsResult) error {
	if formatter.JSON {
		return formatter.Result(result)
	}

	if len(result.Kinds) == 0 {
		fmt.Fprintln(formatter.Out, "No documents found")
		return nil
	}

	for _, a := range result.Kinds {
		fmt.Fprintf(formatter.Out, "%s (current %q): %d document(s), %d current, %d stale\n",
			a.Kind, a.CurrentTag, a.Total, a.Current, a.Stale)
		for _, tc := range a.ByTag {
			marker := ""
			if tc.Current {
				marker = "  current"
			}
			fmt.Fprintf(formatter.Out, "  %-8s %6d%s\n", tc.Tag, tc.Count, marker)
		}
	}
	return nil
}
