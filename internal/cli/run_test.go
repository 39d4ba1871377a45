package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommandMissingArgs(t *testing.T) {
	_, err := execute(NewRunCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestRunCommandMissingDir(t *testing.T) {
	_, err := execute(NewRunCommand(&RootOptions{Format: "text"}), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "case directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommandEmptyDir(t *testing.T) {
	out, err := execute(NewRunCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No cases found")
}

func TestRunCommandAllPass(t *testing.T) {
	dir := writeCases(t, map[string]string{
		"a_select.sql":      "SELECT 1 AS one",
		"a_select.expected": "one\n1\n(1 row)\n",
		"b_error.sql":       "SELECT * FROM nope",
		"b_error.error":     "no such table: nope",
	})

	out, err := execute(NewRunCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ a_select")
	assert.Contains(t, out, "✓ b_error")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.Contains(t, out, "All cases passed")
}

func TestRunCommandFailures(t *testing.T) {
	dir := writeCases(t, map[string]string{
		"a_ok.sql":           "SELECT 1 AS one",
		"a_ok.expected":      "one\n1\n(1 row)\n",
		"b_wrong.sql":        "SELECT 2 AS one",
		"b_wrong.expected":   "one\n1\n(1 row)\n",
		"c_both.sql":         "SELECT 1",
		"c_both.expected":    "1",
		"c_both.error":       "boom",
		"d_unconfigured.sql": "SELECT 1",
	})

	out, err := execute(NewRunCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "3 case(s) failed")

	assert.Contains(t, out, "✓ a_ok")
	assert.Contains(t, out, "✗ b_wrong")
	assert.Contains(t, out, "result mismatch")
	assert.Contains(t, out, "✗ c_both")
	assert.Contains(t, out, "both expected result and expected error specified")
	assert.Contains(t, out, "✗ d_unconfigured")
	assert.Contains(t, out, "no expected result given")
	assert.Contains(t, out, "Test Summary: 1 passed, 3 failed, 4 total")
}

func TestRunCommandJSON(t *testing.T) {
	dir := writeCases(t, map[string]string{
		"a.sql":      "SELECT 1 AS one",
		"a.expected": "one\n1\n(1 row)\n",
		"b.sql":      "SELECT 1 AS one",
	})

	out, err := execute(NewRunCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var response struct {
		Status  string    `json:"status"`
		Data    RunResult `json:"data"`
		Error   *CLIError `json:"error"`
		TraceID string    `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &response))

	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, "E_CASE_FAILED", response.Error.Code)
	_, err = uuid.Parse(response.TraceID)
	assert.NoError(t, err)

	assert.Equal(t, 2, response.Data.Total)
	assert.Equal(t, 1, response.Data.Passed)
	require.Len(t, response.Data.Cases, 2)
	assert.Equal(t, "a", response.Data.Cases[0].Name)
	assert.True(t, response.Data.Cases[0].Pass)
	assert.False(t, response.Data.Cases[1].Pass)
}

func TestRunCommandFailMarker(t *testing.T) {
	files := map[string]string{
		"a.sql":      "SELECT 1 AS one",
		"a.expected": "one\n1\n(1 row)\n",
		"b.sql":      "SELECT broken FROM",
		"b.fail":     "",
	}

	out, err := execute(NewRunCommand(&RootOptions{Format: "text"}), "--run-failing=false", writeCases(t, files))
	require.NoError(t, err)
	assert.NotContains(t, out, " b\n")
	assert.Contains(t, out, "1 total")

	out, err = execute(NewRunCommand(&RootOptions{Format: "text"}), "--run-failing", writeCases(t, files))
	require.Error(t, err)
	assert.Contains(t, out, "✗ b")
	assert.Contains(t, out, "2 total")
}

func TestRunCommandFilter(t *testing.T) {
	dir := writeCases(t, map[string]string{
		"select_a.sql":      "SELECT 1 AS one",
		"select_a.expected": "one\n1\n(1 row)\n",
		"other.sql":         "SELECT 1",
	})

	out, err := execute(NewRunCommand(&RootOptions{Format: "text"}), "--filter", "select_*", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ select_a")
	assert.NotContains(t, out, "other")
}

func TestRunCommandSuite(t *testing.T) {
	dir := writeCases(t, map[string]string{
		"sqlgolden.yaml": `params: true
setup:
  - CREATE TABLE nodes (label TEXT)
  - INSERT INTO nodes VALUES ('Node@5e8c92f4')
mask:
  pattern: '@[0-9a-f]+\b'
`,
		"hashed.sql":      "SELECT label FROM nodes",
		"hashed.expected": "label\nNode@0000abcd\n(1 row)\n",
		"param.sql":       "SELECT ? AS v",
		"param.params":    "hello\n",
		"param.expected":  "v\nhello\n(1 row)\n",
	})

	out, err := execute(NewRunCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ hashed")
	assert.Contains(t, out, "✓ param")
}

func TestRunCommandInvalidSuite(t *testing.T) {
	dir := writeCases(t, map[string]string{
		"sqlgolden.yaml": "driver: oracle\n",
		"a.sql":          "SELECT 1",
	})

	_, err := execute(NewRunCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestRunCommandUpdate(t *testing.T) {
	dir := writeCases(t, map[string]string{
		"a.sql":   "SELECT 7 AS n",
		"b.sql":   "SELECT * FROM nope",
		"b.error": "no such table: nope",
	})

	out, err := execute(NewRunCommand(&RootOptions{Format: "text"}), "--update", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ a (expected updated)")

	written, err := os.ReadFile(filepath.Join(dir, "a.expected"))
	require.NoError(t, err)
	assert.Equal(t, "n\n7\n(1 row)\n", string(written))
	assert.NoFileExists(t, filepath.Join(dir, "b.expected"))

	out, err = execute(NewRunCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 passed")
}

func TestRunCommandHelpText(t *testing.T) {
	out, err := execute(NewRunCommand(&RootOptions{Format: "text"}), "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "cases-dir")
	assert.Contains(t, out, "--update")
	assert.Contains(t, out, "--run-failing")
}
