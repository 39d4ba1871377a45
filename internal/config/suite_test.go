package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlgolden/internal/golden"
)

func writeSuite(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SuiteFile), []byte(content), 0644))
	return dir
}

func TestLoadSuite_Missing(t *testing.T) {
	suite, err := LoadSuite(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, suite.Driver)
	assert.Equal(t, ":memory:", suite.DSN)
	assert.Nil(t, suite.Masker())
}

func TestLoadSuite_Empty(t *testing.T) {
	suite, err := LoadSuite(writeSuite(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, suite.Driver)
}

func TestLoadSuite_Full(t *testing.T) {
	dir := writeSuite(t, `
driver: sqlite3
dsn: "file:cases?mode=memory"
params: true
setup:
  - CREATE TABLE t (id INTEGER, name TEXT)
  - INSERT INTO t VALUES (1, 'a')
mask:
  pattern: '#\d+'
  placeholder: '#N'
`)

	suite, err := LoadSuite(dir)
	require.NoError(t, err)
	assert.Equal(t, "file:cases?mode=memory", suite.DSN)
	assert.True(t, suite.Params)
	assert.Len(t, suite.Setup, 2)
	require.NotNil(t, suite.Masker())
	assert.Equal(t, "row #N", suite.Masker().Mask("row #42"))
}

func TestLoadSuite_DefaultDSN(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"sqlite without dsn", "driver: sqlite3\n", ":memory:"},
		{"driver omitted", "params: true\n", ":memory:"},
		{"mysql with dsn", "driver: mysql\ndsn: \"u:p@tcp(db:3306)/t\"\n", "u:p@tcp(db:3306)/t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite, err := LoadSuite(writeSuite(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, suite.DSN)
		})
	}
}

func TestLoadSuite_UnknownField(t *testing.T) {
	_, err := LoadSuite(writeSuite(t, "drivr: sqlite3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoadSuite_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown driver", "driver: postgres\n", "unsupported driver"},
		{"mysql without dsn", "driver: mysql\n", "dsn is required"},
		{"bad pattern", "mask:\n  pattern: '('\n", "invalid mask pattern"},
		{"placeholder only", "mask:\n  pattern: ''\n  placeholder: x\n", "requires mask.pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSuite(writeSuite(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSuite_CheckFunc(t *testing.T) {
	exact := DefaultSuite()
	require.NoError(t, exact.CheckFunc("c")("a@1f", "a@1f"))

	var mismatch *golden.MismatchError
	require.ErrorAs(t, exact.CheckFunc("c")("a@1f", "a@2e"), &mismatch)

	masked, err := LoadSuite(writeSuite(t, "mask:\n  pattern: '@[0-9a-f]+\\b'\n"))
	require.NoError(t, err)
	require.NoError(t, masked.CheckFunc("c")("a@1f", "a@2e"))
	require.Error(t, masked.CheckFunc("c")("a@1f", "b@2e"))
}
