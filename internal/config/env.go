// Package config holds the settings a golden-file run is driven by: the
// process environment toggle for known-failing cases and the optional
// per-directory suite file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// EnvRunFailing re-includes cases marked with a .fail file when true.
const EnvRunFailing = "SQLGOLDEN_RUN_FAILING"

// DotEnvFile is the optional environment file read from a case directory.
const DotEnvFile = ".env"

// Env is the environment-derived part of the configuration.
type Env struct {
	RunFailing bool
}

// FromEnv parses Env using lookup, which has the signature of os.LookupEnv.
// An unset or empty variable leaves the default.
func FromEnv(lookup func(string) (string, bool)) (Env, error) {
	var env Env

	if v, ok := lookup(EnvRunFailing); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Env{}, fmt.Errorf("invalid %s value %q: %w", EnvRunFailing, v, err)
		}
		env.RunFailing = b
	}

	return env, nil
}

var processEnv = sync.OnceValues(func() (Env, error) {
	return FromEnv(os.LookupEnv)
})

// Process returns the Env of the running process. The environment is read on
// the first call only; later calls return the same value.
func Process() (Env, error) {
	return processEnv()
}

// LoadDotEnv adds the variables of dir/.env to the process environment.
// Variables that are already set are left alone, and a missing file is not
// an error. It has no effect once Process has been called.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, DotEnvFile)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
