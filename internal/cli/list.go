package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlgolden/internal/golden"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Filter     string
	RunFailing bool
}

// CaseInfo describes a discovered case and its companion files.
type CaseInfo struct {
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Companions []string `json:"companions"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list <cases-dir>",
		Short: "List discovered cases",
		Long: `List the cases of a directory in run order, with the companion files
each case has (expected, error, params, fail).

Examples:
  sqlgolden list ./testdata/parse
  sqlgolden list ./testdata/parse --run-failing --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCases(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter cases by glob pattern")
	cmd.Flags().BoolVar(&opts.RunFailing, "run-failing", false, "include cases marked with .fail")

	return cmd
}

func listCases(opts *ListOptions, dir string, cmd *cobra.Command) error {
	src, err := discover(dir, opts.Filter, opts.RunFailing, cmd.Flags().Changed("run-failing"))
	if err != nil {
		return err
	}

	infos := make([]CaseInfo, 0, len(src.Cases))
	for _, c := range src.Cases {
		infos = append(infos, describeCase(c))
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: infos})
	}

	w := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(w, "No cases found.")
		return nil
	}
	for _, info := range infos {
		if len(info.Companions) == 0 {
			fmt.Fprintln(w, info.Name)
			continue
		}
		fmt.Fprintf(w, "%s\t[%s]\n", info.Name, strings.Join(info.Companions, " "))
	}
	return nil
}

// describeCase reports which companions exist, checking the filesystem for
// those the loader does not keep (params when disabled, and the fail marker).
func describeCase(c golden.Case) CaseInfo {
	info := CaseInfo{Name: c.Name, Path: c.Path, Companions: []string{}}
	if c.Expected != nil {
		info.Companions = append(info.Companions, "expected")
	}
	if c.Error != nil {
		info.Companions = append(info.Companions, "error")
	}
	if c.HasParams() || fileExists(golden.ChangeSuffix(c.Path, golden.ParamsSuffix)) {
		info.Companions = append(info.Companions, "params")
	}
	if fileExists(golden.ChangeSuffix(c.Path, golden.FailSuffix)) {
		info.Companions = append(info.Companions, "fail")
	}
	return info
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
