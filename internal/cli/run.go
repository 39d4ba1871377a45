package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/sqlgolden/internal/config"
	"github.com/roach88/sqlgolden/internal/golden"
	"github.com/roach88/sqlgolden/internal/sqlexec"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Update     bool   // rewrite .expected files from actual output
	Filter     string // case name filter (glob pattern)
	RunFailing bool   // include cases marked with .fail
}

// CaseResult holds the result of a single case.
type CaseResult struct {
	Name    string   `json:"name"`
	Pass    bool     `json:"pass"`
	Updated bool     `json:"updated,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// RunResult holds the overall result of a run.
type RunResult struct {
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Total  int          `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <cases-dir>",
		Short: "Run golden-file cases",
		Long: `Run every SQL case in a directory and reconcile the outcomes.

Cases execute against the database described by sqlgolden.yaml in the case
directory (an in-memory SQLite database by default), each on a fresh
connection after the suite's setup statements. A .env file in the directory
may set ` + config.EnvRunFailing + `.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (missing directory, invalid suite file, etc.)

Examples:
  sqlgolden run ./testdata/parse
  sqlgolden run ./testdata/parse --filter "select-*"
  sqlgolden run ./testdata/parse --update
  sqlgolden run ./testdata/parse --run-failing --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCases(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite .expected files from actual output")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter cases by glob pattern")
	cmd.Flags().BoolVar(&opts.RunFailing, "run-failing", false, "include cases marked with .fail (overrides "+config.EnvRunFailing+")")

	return cmd
}

// caseSource is what run and list share: the suite and the discovered cases.
type caseSource struct {
	Suite *config.Suite
	Cases []golden.Case
}

// discover loads the environment, suite file and cases of dir.
// The --run-failing flag wins over the environment when it was given.
func discover(dir, filter string, runFailing bool, flagSet bool) (*caseSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("case directory not found: %s", dir))
		}
		return nil, WrapExitError(ExitCommandError, "failed to access case directory", err)
	}
	if !info.IsDir() {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("not a directory: %s", dir))
	}

	if err := config.LoadDotEnv(dir); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load environment", err)
	}
	env, err := config.Process()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid environment", err)
	}
	if !flagSet {
		runFailing = env.RunFailing
	}

	suite, err := config.LoadSuite(dir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load suite", err)
	}

	cases, err := golden.LoadCases(dir, golden.LoadOptions{
		RunFailing: runFailing,
		Params:     suite.Params,
		Filter:     filter,
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load cases", err)
	}

	slog.Debug("cases discovered", "dir", dir, "count", len(cases), "run_failing", runFailing)
	return &caseSource{Suite: suite, Cases: cases}, nil
}

func runCases(ctx context.Context, opts *RunOptions, dir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	src, err := discover(dir, opts.Filter, opts.RunFailing, cmd.Flags().Changed("run-failing"))
	if err != nil {
		return err
	}

	if len(src.Cases) == 0 {
		if opts.Format == "json" {
			return outputRunJSON(cmd, RunResult{Cases: []CaseResult{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No cases found.")
		return nil
	}

	result := RunResult{
		Cases: make([]CaseResult, 0, len(src.Cases)),
		Total: len(src.Cases),
	}

	for _, c := range src.Cases {
		caseResult := runCase(ctx, src.Suite, c, opts.Update)
		result.Cases = append(result.Cases, caseResult)

		if caseResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}

		if opts.Format != "json" {
			printCaseResult(cmd, caseResult)
		}
	}

	if opts.Format == "json" {
		return outputRunJSON(cmd, result)
	}
	return outputRunText(cmd, result)
}

// runCase executes one case on its own connection.
func runCase(ctx context.Context, suite *config.Suite, c golden.Case, update bool) CaseResult {
	logger := slog.Default().With("case", c.Name)

	db, err := sqlexec.Open(ctx, suite.Driver, suite.DSN, sqlexec.WithLogger(logger))
	if err != nil {
		return failed(c.Name, err)
	}
	defer db.Close()

	if err := db.Reset(ctx, suite.Setup); err != nil {
		return failed(c.Name, err)
	}

	h := sqlexec.NewHandler(ctx, db, c, suite.CheckFunc(c.Name))

	if update && c.Error == nil {
		return updateExpected(c, h)
	}

	if err := c.Check(h); err != nil {
		logger.Debug("case failed", "error", err)
		return failed(c.Name, err)
	}
	logger.Debug("case passed")
	return CaseResult{Name: c.Name, Pass: true}
}

// updateExpected writes the produced result to the case's .expected file.
func updateExpected(c golden.Case, h golden.Handler) CaseResult {
	result, err := h.GenerateResult()
	if err != nil {
		return failed(c.Name, fmt.Errorf("cannot update expected result: %w", err))
	}

	path := golden.ChangeSuffix(c.Path, golden.ExpectedSuffix)
	if err := os.WriteFile(path, []byte(result), 0644); err != nil {
		return failed(c.Name, fmt.Errorf("failed to write %s: %w", path, err))
	}

	slog.Info("expected result updated", "case", c.Name, "path", path)
	return CaseResult{Name: c.Name, Pass: true, Updated: true}
}

func failed(name string, err error) CaseResult {
	return CaseResult{
		Name:   name,
		Pass:   false,
		Errors: []string{strings.TrimRight(err.Error(), "\n")},
	}
}

func printCaseResult(cmd *cobra.Command, r CaseResult) {
	w := cmd.OutOrStdout()
	switch {
	case r.Pass && r.Updated:
		printPass(w, r.Name, "expected updated")
	case r.Pass:
		printPass(w, r.Name, "")
	default:
		printFail(w, r.Name, r.Errors)
	}
}

// outputRunJSON outputs the run result as JSON.
func outputRunJSON(cmd *cobra.Command, result RunResult) error {
	response := CLIResponse{
		Status:  "ok",
		Data:    result,
		TraceID: uuid.NewString(),
	}

	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_CASE_FAILED",
			Message: fmt.Sprintf("%d case(s) failed", result.Failed),
		}
	}

	if err := writeJSON(cmd.OutOrStdout(), response); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}
	return nil
}

// outputRunText prints the summary line.
func outputRunText(cmd *cobra.Command, result RunResult) error {
	w := cmd.OutOrStdout()
	p := message.NewPrinter(language.English)

	fmt.Fprintln(w)
	p.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}

	fmt.Fprintln(w, passMark("✓"), "All cases passed")
	return nil
}
