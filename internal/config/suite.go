package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sqlgolden/internal/golden"
)

// SuiteFile is the optional configuration file of a case directory.
const SuiteFile = "sqlgolden.yaml"

// Supported database drivers.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// Suite configures how the cases of one directory are executed and checked.
//
//	driver: sqlite3
//	dsn: ":memory:"
//	params: true
//	setup:
//	  - CREATE TABLE t (id INTEGER, name TEXT)
//	mask:
//	  pattern: '@[0-9a-f]+\b'
//	  placeholder: '@HASH'
type Suite struct {
	// Driver is the database/sql driver name. Defaults to sqlite3.
	Driver string `yaml:"driver,omitempty"`

	// DSN is the data source name. Defaults to ":memory:" for sqlite3 and is
	// required for mysql.
	DSN string `yaml:"dsn,omitempty"`

	// Setup statements run before every case.
	Setup []string `yaml:"setup,omitempty"`

	// Params binds .params companions as positional arguments.
	Params bool `yaml:"params,omitempty"`

	// Mask enables masked comparison of results. Without a pattern results
	// are compared exactly.
	Mask MaskConfig `yaml:"mask,omitempty"`

	masker *golden.Masker
}

// MaskConfig selects the volatile substrings hidden during comparison.
type MaskConfig struct {
	Pattern     string `yaml:"pattern"`
	Placeholder string `yaml:"placeholder,omitempty"`
}

// DefaultSuite is used for directories without a suite file.
func DefaultSuite() *Suite {
	return &Suite{
		Driver: DriverSQLite,
		DSN:    ":memory:",
	}
}

// LoadSuite reads dir/sqlgolden.yaml. A missing file yields DefaultSuite.
// Unknown fields are rejected to catch typos.
func LoadSuite(dir string) (*Suite, error) {
	path := filepath.Join(dir, SuiteFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSuite(), nil
		}
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	// Defaults are filled in by validate, which knows which driver they belong to.
	suite := &Suite{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(suite); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := suite.validate(); err != nil {
		return nil, fmt.Errorf("invalid suite %s: %w", path, err)
	}
	return suite, nil
}

func (s *Suite) validate() error {
	switch s.Driver {
	case "":
		s.Driver = DriverSQLite
		fallthrough
	case DriverSQLite:
		if s.DSN == "" {
			s.DSN = ":memory:"
		}
	case DriverMySQL:
		if s.DSN == "" {
			return fmt.Errorf("dsn is required for driver %q", s.Driver)
		}
	default:
		return fmt.Errorf("unsupported driver %q: must be %s or %s", s.Driver, DriverSQLite, DriverMySQL)
	}

	if s.Mask.Pattern == "" {
		if s.Mask.Placeholder != "" {
			return fmt.Errorf("mask.placeholder requires mask.pattern")
		}
		return nil
	}

	m, err := golden.NewMasker(s.Mask.Pattern, s.Mask.Placeholder)
	if err != nil {
		return err
	}
	s.masker = m
	return nil
}

// Masker returns the compiled mask, or nil when results compare exactly.
func (s *Suite) Masker() *golden.Masker {
	return s.masker
}

// CheckFunc returns the result check the suite calls for: masked when a
// pattern is configured, exact otherwise.
func (s *Suite) CheckFunc(name string) func(expected, actual string) error {
	if m := s.masker; m != nil {
		return func(expected, actual string) error {
			return golden.CheckWithoutPattern(name, expected, actual, m)
		}
	}
	return func(expected, actual string) error {
		return golden.CheckEqual(name, expected, actual)
	}
}
