package golden

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListSQLFiles returns the .sql files directly inside dir, ordered by file name.
//
// A directory that does not exist yields no files and no error; whether an
// empty result is acceptable is up to the caller.
func ListSQLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), SourceSuffix) {
			continue
		}
		regular, err := isRegular(dir, entry)
		if err != nil {
			return nil, err
		}
		if regular {
			names = append(names, entry.Name())
		}
	}

	// os.ReadDir already sorts, but ordering is part of the contract.
	sort.Strings(names)

	files := make([]string, len(names))
	for i, name := range names {
		files[i] = filepath.Join(dir, name)
	}
	return files, nil
}

// isRegular reports whether entry is a regular file, following symlinks.
// A dangling symlink is not a case.
func isRegular(dir string, entry fs.DirEntry) (bool, error) {
	if entry.Type().IsRegular() {
		return true, nil
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
	}
	return info.Mode().IsRegular(), nil
}

// ChangeSuffix derives a companion file path: "dir/foo.sql" with ".expected"
// becomes "dir/foo.expected".
func ChangeSuffix(sqlFile, suffix string) string {
	dir, base := filepath.Split(sqlFile)
	return dir + CaseName(base) + suffix
}

// CaseName strips the directory and the .sql suffix from a source file path.
func CaseName(sqlFile string) string {
	return strings.TrimSuffix(filepath.Base(sqlFile), SourceSuffix)
}
