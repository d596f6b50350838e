package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/matchc/internal/store"
)

// CacheOptions holds flags for the cache commands.
type CacheOptions struct {
	*RootOptions
	DB string // path to the cache database
}

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the compile cache",
		Long: `Inspect or clear the compile cache written by compile --cache.

Entries are keyed by the options fingerprint and the file content, so a
cleared cache only costs one recompilation per file.`,
	}

	cmd.PersistentFlags().StringVar(&opts.DB, "cache", "", "path to the cache database (required)")
	_ = cmd.MarkPersistentFlagRequired("cache")

	cmd.AddCommand(&cobra.Command{
		Use:           "stats",
		Short:         "Show cache totals",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheStats(opts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "clear",
		Short:         "Delete every cached compilation and run",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear(opts, cmd)
		},
	})

	return cmd
}

// openCache opens an existing cache database. A missing file is a command
// error rather than an empty cache.
func openCache(opts *CacheOptions, formatter *OutputFormatter) (*store.Store, error) {
	if _, err := os.Stat(opts.DB); os.IsNotExist(err) {
		return nil, outputCompileError(formatter, ErrCodeNotFound, fmt.Sprintf("cache database not found: %s", opts.DB))
	}
	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, outputCompileError(formatter, ErrCodeCache, err.Error())
	}
	return st, nil
}

func runCacheStats(opts *CacheOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openCache(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(cmd.Context())
	if err != nil {
		return outputCompileError(formatter, ErrCodeCache, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(stats)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Cache: %s\n", opts.DB)
	fmt.Fprintf(w, "  Entries:  %d\n", stats.Entries)
	fmt.Fprintf(w, "  Runs:     %d\n", stats.Runs)
	fmt.Fprintf(w, "  Hits:     %d\n", stats.Hits)
	fmt.Fprintf(w, "  Misses:   %d\n", stats.Misses)
	fmt.Fprintf(w, "  Failures: %d\n", stats.Failures)
	if stats.LastRun != "" {
		fmt.Fprintf(w, "  Last run: %s\n", stats.LastRun)
	}
	return nil
}

func runCacheClear(opts *CacheOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openCache(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Clear(cmd.Context()); err != nil {
		return outputCompileError(formatter, ErrCodeCache, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]bool{"cleared": true})
	}
	fmt.Fprintf(formatter.Writer, "%s Cleared %s\n", formatter.Mark(true), opts.DB)
	return nil
}
