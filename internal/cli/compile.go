package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/matchc/internal/compiler"
	"github.com/roach88/matchc/internal/config"
	"github.com/roach88/matchc/internal/rewrite"
	"github.com/roach88/matchc/internal/store"
)

// CompileOptions holds flags for the compile and check commands.
type CompileOptions struct {
	*RootOptions
	OutDir     string // directory compiled files are written to
	Mode       string
	Factory    string
	OutputType string
	Negation   string
	Merge      bool
	Config     string // explicit config file
	Cache      string // compile cache database
}

// FileResult is the outcome of compiling one file.
type FileResult struct {
	File    string         `json:"file"`
	Output  string         `json:"output,omitempty"`
	Written string         `json:"written,omitempty"`
	Report  rewrite.Report `json:"report"`
	Cached  bool           `json:"cached,omitempty"`
	Error   *Diagnostic    `json:"error,omitempty"`

	rel string
}

// CompilationResult holds the per-file results of one invocation.
type CompilationResult struct {
	Files  []FileResult   `json:"files"`
	Report rewrite.Report `json:"report"`
	Failed int            `json:"failed"`
	RunID  string         `json:"-"`
}

// Diagnostics returns the errors of the failed files.
func (r *CompilationResult) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, f := range r.Files {
		if f.Error != nil {
			out = append(out, *f.Error)
		}
	}
	return out
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <path>...",
		Short: "Compile match sites in TypeScript sources",
		Long: `Rewrite every 'use match' function and Λ("match") template in the given
files. Directories are walked for .ts and .tsx files.

Without --out-dir the compiled source is printed to stdout. Each file is
compiled with the options of the nearest .matchc.yaml or matchc.cue above
it, overridden by flags.

Exit codes:
  0 - All files compiled
  1 - One or more files failed to compile
  2 - Command error (missing paths, bad config, etc.)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out-dir", "o", "", "write compiled files under this directory")
	opts.addFlags(cmd)

	return cmd
}

// addFlags registers the compiler option flags shared by compile and check.
func (o *CompileOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Mode, "mode", "", "fluent output mode (node|text)")
	cmd.Flags().StringVar(&o.Factory, "factory", "", "runtime factory identifier (default match)")
	cmd.Flags().StringVar(&o.OutputType, "output-type", "", "output type argument for fluent chains")
	cmd.Flags().StringVar(&o.Negation, "negation", "", "negation routing (structural|predicate)")
	cmd.Flags().BoolVar(&o.Merge, "merge", false, "splice inline match blocks into the enclosing block")
	cmd.Flags().StringVar(&o.Config, "config", "", "config file for every source (default: discovered per source directory)")
	cmd.Flags().StringVar(&o.Cache, "cache", "", "compile cache database")
}

// resolve loads the options governing sources in dir and applies flag
// overrides. An explicit --config governs every directory.
func (o *CompileOptions) resolve(cmd *cobra.Command, dir string) (config.Options, string, error) {
	var (
		options config.Options
		path    string
		err     error
	)
	if o.Config != "" {
		path = o.Config
		options, err = config.Load(o.Config)
	} else {
		options, path, err = config.LoadDir(dir)
	}
	if err != nil {
		return config.Options{}, path, err
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		options.Mode = o.Mode
	}
	if flags.Changed("factory") {
		options.Factory = o.Factory
	}
	if flags.Changed("output-type") {
		options.OutputType = o.OutputType
	}
	if flags.Changed("negation") {
		options.Negation = o.Negation
	}
	if flags.Changed("merge") {
		options.Merge = o.Merge
	}
	if err := options.Validate(); err != nil {
		return config.Options{}, path, err
	}
	return options.WithDefaults(), path, nil
}

func runCompile(opts *CompileOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	result, err := opts.compile(cmd, paths, formatter)
	if err != nil {
		return err
	}

	if opts.OutDir != "" {
		if err := writeOutputs(result, opts.OutDir); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output: %v", err))
		}
	}

	return outputCompileResult(formatter, result, opts.OutDir)
}

// compile runs the shared compile pipeline: find sources, resolve options,
// open the cache and compile every file. Errors returned are already
// reported through formatter.
func (o *CompileOptions) compile(cmd *cobra.Command, paths []string, formatter *OutputFormatter) (*CompilationResult, error) {
	logger := o.Logger(cmd.ErrOrStderr())

	sources, err := FindSources(paths)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, outputCompileError(formatter, loadErr.Code, loadErr.Message)
		}
		return nil, outputCompileError(formatter, ErrCodeGeneric, err.Error())
	}
	formatter.VerboseLog("Found %d source file(s)", len(sources))

	unitFor, err := o.units(cmd, sources, formatter, logger)
	if err != nil {
		return nil, err
	}
	comp := &compilation{unitFor: unitFor, log: logger}

	if o.Cache != "" {
		st, err := store.Open(o.Cache)
		if err != nil {
			return nil, outputCompileError(formatter, ErrCodeCache, err.Error())
		}
		defer st.Close()
		comp.cache = st
	}

	bar := newProgress(formatter, len(sources))
	result, err := comp.run(cmd.Context(), sources, bar)
	_ = bar.Finish()
	if err != nil {
		return nil, outputCompileError(formatter, ErrCodeCache, err.Error())
	}
	return result, nil
}

// units resolves the options of every source directory. Directories
// governed by the same config file share a unit. Errors returned are
// already reported through formatter.
func (o *CompileOptions) units(cmd *cobra.Command, sources []Source, formatter *OutputFormatter, logger *zap.Logger) (func(Source) *unit, error) {
	byDir := make(map[string]*unit)
	byConfig := make(map[string]*unit)
	for _, s := range sources {
		dir := filepath.Dir(s.Path)
		if _, ok := byDir[dir]; ok {
			continue
		}
		options, cfgPath, err := o.resolve(cmd, dir)
		if err != nil {
			d := diagnose(cfgPath, err)
			if d.Code == ErrCodeGeneric {
				d.Code = ErrCodeConfig
			}
			return nil, outputCompileError(formatter, d.Code, err.Error())
		}
		u, ok := byConfig[cfgPath]
		if !ok {
			if cfgPath != "" {
				formatter.VerboseLog("Using config %s", cfgPath)
			}
			u = newUnit(options, logger)
			byConfig[cfgPath] = u
		}
		byDir[dir] = u
	}
	return func(s Source) *unit {
		return byDir[filepath.Dir(s.Path)]
	}, nil
}

// newProgress returns a progress bar on stderr. It is hidden unless output
// is text, stderr is a terminal and there is more than one file.
func newProgress(f *OutputFormatter, n int) *progressbar.ProgressBar {
	w := f.GetErrWriter()
	visible := f.Format != "json" && !f.Verbose && n > 1 && colorEnabled(w)
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionSetDescription("compiling"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// unit compiles the sources governed by one set of options.
type unit struct {
	fingerprint string
	rw          *rewrite.Rewriter
}

func newUnit(options config.Options, logger *zap.Logger) *unit {
	c := compiler.New(options.Compiler(), compiler.WithLogger(logger))
	return &unit{
		fingerprint: options.Fingerprint(),
		rw:          rewrite.New(c, options.RewriteMode()),
	}
}

// compilation compiles sources, each with the unit of its directory, through
// the cache when one is open.
type compilation struct {
	unitFor func(Source) *unit
	cache   *store.Store
	log     *zap.Logger
}

// runOptions is what a cache run records as its options: the distinct
// fingerprints of the units it used, sorted.
func (c *compilation) runOptions(sources []Source) string {
	seen := make(map[string]bool)
	var fps []string
	for _, s := range sources {
		fp := c.unitFor(s).fingerprint
		if !seen[fp] {
			seen[fp] = true
			fps = append(fps, fp)
		}
	}
	slices.Sort(fps)
	return strings.Join(fps, "\n")
}

// run compiles every source. A file that fails to compile is recorded in
// its FileResult; the returned error is a cache failure.
func (c *compilation) run(ctx context.Context, sources []Source, bar *progressbar.ProgressBar) (*CompilationResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	result := &CompilationResult{Files: make([]FileResult, 0, len(sources))}

	var run *store.Run
	if c.cache != nil {
		var err error
		if run, err = c.cache.BeginRun(ctx, c.runOptions(sources)); err != nil {
			return nil, err
		}
		result.RunID = run.ID
	}

	for _, s := range sources {
		fr, err := c.file(ctx, run, s)
		if err != nil {
			return nil, err
		}
		if fr.Error != nil {
			result.Failed++
		} else {
			result.Report.Add(fr.Report)
		}
		result.Files = append(result.Files, fr)
		_ = bar.Add(1)
	}

	if run != nil {
		run.Files = len(sources)
		if err := c.cache.FinishRun(ctx, run); err != nil {
			return nil, err
		}
		c.log.Info("cache run finished",
			zap.String("run", run.ID),
			zap.Int("hits", run.Hits),
			zap.Int("misses", run.Misses),
			zap.Int("failures", run.Failures))
	}
	return result, nil
}

func (c *compilation) file(ctx context.Context, run *store.Run, s Source) (FileResult, error) {
	fr := FileResult{File: s.Path, rel: s.Rel}
	u := c.unitFor(s)

	data, err := os.ReadFile(s.Path)
	if err != nil {
		fr.Error = &Diagnostic{File: s.Path, Code: ErrCodeNotFound, Message: err.Error()}
		return fr, nil
	}
	src := string(data)

	var key string
	if run != nil {
		key = store.Key(u.fingerprint, src)
		entry, ok, err := c.cache.Lookup(ctx, key)
		if err != nil {
			return fr, err
		}
		if ok {
			run.Hits++
			c.log.Debug("cache hit", zap.String("file", s.Path), zap.String("key", key[:12]))
			fr.Output, fr.Report, fr.Cached = entry.Output, entry.Report, true
			return fr, nil
		}
		run.Misses++
		c.log.Debug("cache miss", zap.String("file", s.Path), zap.String("key", key[:12]))
	}

	out, rep, err := u.rw.Source(s.Path, src)
	if err != nil {
		d := diagnose(s.Path, err)
		fr.Error = &d
		if run != nil {
			run.Failures++
		}
		return fr, nil
	}
	fr.Output, fr.Report = out, rep

	if run != nil {
		entry := store.Entry{Key: key, File: s.Path, Output: out, Report: rep}
		if err := c.cache.Put(ctx, run, entry); err != nil {
			return fr, err
		}
	}
	return fr, nil
}

// writeOutputs writes every compiled file under dir, keeping its path
// relative to the argument it was found under.
func writeOutputs(result *CompilationResult, dir string) error {
	for i := range result.Files {
		f := &result.Files[i]
		if f.Error != nil {
			continue
		}
		target := filepath.Join(dir, f.rel)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(f.Output), 0644); err != nil {
			return err
		}
		f.Written = target
		f.Output = ""
	}
	return nil
}

// outputCompileResult reports compiled files. Compiled source goes to
// stdout when nothing was written; diagnostics go to stderr then.
func outputCompileResult(formatter *OutputFormatter, result *CompilationResult, outDir string) error {
	if formatter.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result, RunID: result.RunID}
		if result.Failed > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    result.Diagnostics()[0].Code,
				Message: fmt.Sprintf("%d file(s) failed to compile", result.Failed),
				Details: result.Diagnostics(),
			}
		}
		if err := encodeJSON(formatter.Writer, resp); err != nil {
			return err
		}
		return compileExit(result)
	}

	w := formatter.Writer
	diagOut := formatter
	if outDir == "" {
		diagOut = &OutputFormatter{Format: formatter.Format, Writer: formatter.GetErrWriter()}
		multi := len(result.Files) > 1
		for _, f := range result.Files {
			if f.Error != nil {
				continue
			}
			if multi {
				fmt.Fprintf(w, "// %s\n", f.File)
			}
			fmt.Fprint(w, f.Output)
		}
	}

	if result.Failed > 0 {
		fmt.Fprintf(diagOut.Writer, "%s Compilation failed\n\n", diagOut.Mark(false))
		diagOut.Diagnostics(result.Diagnostics())
	}

	if outDir != "" {
		written := len(result.Files) - result.Failed
		fmt.Fprintf(w, "%s Compiled %d file(s): %d guard, %d inline, %d fluent site(s)\n",
			formatter.Mark(result.Failed == 0), written,
			result.Report.GuardSites, result.Report.InlineSites, result.Report.FluentSites)
		if written > 0 {
			fmt.Fprintf(w, "Wrote %d file(s) to %s\n", written, outDir)
		}
	}
	for _, f := range result.Files {
		if f.Cached {
			formatter.VerboseLog("%s: cached", f.File)
		}
	}

	return compileExit(result)
}

func compileExit(result *CompilationResult) error {
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("compilation failed with %d error(s)", result.Failed))
	}
	return nil
}

// outputCompileError outputs a command-level error.
func outputCompileError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}
