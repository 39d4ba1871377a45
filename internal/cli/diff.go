package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlgolden/internal/golden"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	Pattern     string
	Placeholder string
}

// DiffResult is the JSON payload of the diff command.
type DiffResult struct {
	Equal   bool   `json:"equal"`
	Pattern string `json:"pattern"`
	Diff    string `json:"diff,omitempty"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <expected-file> <actual-file>",
		Short: "Compare two files with volatile substrings masked",
		Long: `Compare two files after replacing every match of --pattern with the
placeholder in both. Any difference outside the masked regions is reported
as a unified diff of the masked texts.

Exit codes:
  0 - Files match
  1 - Files differ
  2 - Command error

Examples:
  sqlgolden diff select.expected /tmp/select.out
  sqlgolden diff a.txt b.txt --pattern '\d{4}-\d{2}-\d{2}' --placeholder '<date>'`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return diffFiles(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Pattern, "pattern", golden.HashPattern, "regular expression for volatile substrings")
	cmd.Flags().StringVar(&opts.Placeholder, "placeholder", golden.DefaultPlaceholder, "replacement for masked substrings")

	return cmd
}

func diffFiles(opts *DiffOptions, expectedPath, actualPath string, cmd *cobra.Command) error {
	m, err := golden.NewMasker(opts.Pattern, opts.Placeholder)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid pattern", err)
	}

	expected, err := golden.ReadContents(expectedPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read expected file", err)
	}
	actual, err := golden.ReadContents(actualPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read actual file", err)
	}

	cmp := m.Compare(expected, actual)
	w := cmd.OutOrStdout()

	if opts.Format == "json" {
		response := CLIResponse{
			Status: "ok",
			Data:   DiffResult{Equal: cmp.Equal, Pattern: m.Pattern(), Diff: cmp.Diff()},
		}
		if !cmp.Equal {
			response.Status = "error"
			response.Error = &CLIError{Code: "E_MISMATCH", Message: "files differ"}
		}
		if err := writeJSON(w, response); err != nil {
			return err
		}
	} else if cmp.Equal {
		fmt.Fprintln(w, passMark("✓"), "files match")
	} else {
		fmt.Fprint(w, cmp.Diff())
	}

	if !cmp.Equal {
		return NewExitError(ExitFailure, "files differ")
	}
	return nil
}
