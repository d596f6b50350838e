package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CheckResult holds check results.
type CheckResult struct {
	Valid  bool         `json:"valid"`
	Files  int          `json:"files"`
	Failed int          `json:"failed"`
	Errors []Diagnostic `json:"errors,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Check match sites without writing output",
		Long: `Compile the given files without writing anything and report every
error with its position. Faster feedback than compile while editing.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	opts.addFlags(cmd)

	return cmd
}

func runCheck(opts *CompileOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, err := opts.compile(cmd, paths, formatter)
	if err != nil {
		return err
	}

	check := CheckResult{
		Valid:  result.Failed == 0,
		Files:  len(result.Files),
		Failed: result.Failed,
		Errors: result.Diagnostics(),
	}
	for _, f := range result.Files {
		if f.Error == nil {
			formatter.VerboseLog("%s: %d site(s)", f.File, f.Report.Sites())
		}
	}

	if formatter.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: check, RunID: result.RunID}
		if !check.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    check.Errors[0].Code,
				Message: fmt.Sprintf("%d of %d file(s) failed", check.Failed, check.Files),
			}
		}
		if err := encodeJSON(formatter.Writer, resp); err != nil {
			return err
		}
	} else {
		if check.Valid {
			fmt.Fprintf(formatter.Writer, "%s %d file(s) OK\n", formatter.Mark(true), check.Files)
		} else {
			fmt.Fprintf(formatter.Writer, "%s %d of %d file(s) failed\n\n", formatter.Mark(false), check.Failed, check.Files)
			formatter.Diagnostics(check.Errors)
		}
	}

	if !check.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("check failed with %d error(s)", check.Failed))
	}
	return nil
}
