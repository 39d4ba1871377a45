package golden

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
)

// maxLineSize bounds a single .params line.
const maxLineSize = 16 * 1024 * 1024

// ReadContents returns the whole content of a file as a string.
func ReadContents(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	// A close error on a read-only handle carries nothing worth reporting.
	defer func() { _ = f.Close() }()

	var sb strings.Builder
	if _, err := io.Copy(&sb, f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return sb.String(), nil
}

// ReadLines returns the lines of a file without their line terminators.
// A line ends at "\n", "\r\n" or a lone "\r". An empty file yields an
// empty, non-nil slice.
func ReadLines(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	lines := []string{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	scanner.Split(scanLines)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return lines, nil
}

// scanLines is bufio.ScanLines extended to treat a lone '\r' as a line end.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// '\r' at the end of the buffer may be the first half of "\r\n".
		if i+1 == len(data) && !atEOF {
			return 0, nil, nil
		}
		if i+1 < len(data) && data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// LoadCase reads the companions of a single .sql file. Missing companions
// leave their fields nil; the .fail marker is not consulted here.
func LoadCase(sqlFile string, opts LoadOptions) (Case, error) {
	sql, err := ReadContents(sqlFile)
	if err != nil {
		return Case{}, fmt.Errorf("failed to load case %s: %w", CaseName(sqlFile), err)
	}

	c := Case{
		Name: CaseName(sqlFile),
		Path: sqlFile,
		SQL:  sql,
	}

	if c.Expected, err = readOptional(ChangeSuffix(sqlFile, ExpectedSuffix)); err != nil {
		return Case{}, fmt.Errorf("failed to load case %s: %w", c.Name, err)
	}
	if c.Error, err = readOptional(ChangeSuffix(sqlFile, ErrorSuffix)); err != nil {
		return Case{}, fmt.Errorf("failed to load case %s: %w", c.Name, err)
	}

	if opts.Params {
		params, err := ReadLines(ChangeSuffix(sqlFile, ParamsSuffix))
		switch {
		case err == nil:
			c.Params = params
		case !errors.Is(err, fs.ErrNotExist):
			return Case{}, fmt.Errorf("failed to load case %s: %w", c.Name, err)
		}
	}

	return c, nil
}

// LoadCases loads every case in dir in file name order.
//
// Cases with a .fail companion are left out entirely unless opts.RunFailing
// is set. Cases whose names do not match opts.Filter are left out as well.
func LoadCases(dir string, opts LoadOptions) ([]Case, error) {
	files, err := ListSQLFiles(dir)
	if err != nil {
		return nil, err
	}

	cases := make([]Case, 0, len(files))
	for _, sqlFile := range files {
		name := CaseName(sqlFile)

		if opts.Filter != "" {
			matched, err := path.Match(opts.Filter, name)
			if err != nil {
				return nil, fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				continue
			}
		}

		if !opts.RunFailing {
			failing, err := exists(ChangeSuffix(sqlFile, FailSuffix))
			if err != nil {
				return nil, err
			}
			if failing {
				continue
			}
		}

		c, err := LoadCase(sqlFile, opts)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// readOptional reads a companion file, returning nil when it does not exist.
func readOptional(filename string) (*string, error) {
	content, err := ReadContents(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return &content, nil
}

func exists(filename string) (bool, error) {
	_, err := os.Stat(filename)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", filename, err)
}
