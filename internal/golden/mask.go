package golden

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// HashPattern matches identity-hash suffixes such as "ColumnReference@5e8c92f4".
const HashPattern = `@[0-9a-f]+\b`

// DefaultPlaceholder replaces every masked region.
const DefaultPlaceholder = "@HASH"

// Masker compares texts for equality outside the regions matched by a pattern.
type Masker struct {
	re          *regexp.Regexp
	placeholder string
}

// NewMasker compiles pattern. An empty placeholder selects DefaultPlaceholder.
func NewMasker(pattern, placeholder string) (*Masker, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid mask pattern %q: %w", pattern, err)
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Masker{re: re, placeholder: placeholder}, nil
}

// MustMasker is like NewMasker but panics if the pattern does not compile.
func MustMasker(pattern, placeholder string) *Masker {
	m, err := NewMasker(pattern, placeholder)
	if err != nil {
		panic(err)
	}
	return m
}

var hashMasker = MustMasker(HashPattern, DefaultPlaceholder)

// HashMasker returns the masker for HashPattern.
func HashMasker() *Masker {
	return hashMasker
}

// Pattern returns the source of the masking expression.
func (m *Masker) Pattern() string {
	return m.re.String()
}

// Mask replaces every match of the pattern in text with the placeholder.
func (m *Masker) Mask(text string) string {
	return m.re.ReplaceAllLiteralString(text, m.placeholder)
}

// Compare masks both texts and compares the results exactly.
func (m *Masker) Compare(expected, actual string) Comparison {
	me, ma := m.Mask(expected), m.Mask(actual)
	return Comparison{
		Equal:    me == ma,
		Expected: me,
		Actual:   ma,
	}
}

// Match is Compare over two readers.
func (m *Masker) Match(expected, actual io.Reader) (Comparison, error) {
	e, err := io.ReadAll(expected)
	if err != nil {
		return Comparison{}, fmt.Errorf("failed to read expected text: %w", err)
	}
	a, err := io.ReadAll(actual)
	if err != nil {
		return Comparison{}, fmt.Errorf("failed to read actual text: %w", err)
	}
	return m.Compare(string(e), string(a)), nil
}

// Comparison is the outcome of a masked comparison. Expected and Actual hold
// the masked texts, which is what any failure report shows.
type Comparison struct {
	Equal    bool
	Expected string
	Actual   string
}

// Diff renders a unified diff of the masked texts, or "" when they are equal.
func (c Comparison) Diff() string {
	if c.Equal {
		return ""
	}
	return unifiedDiff(c.Expected, c.Actual)
}

func unifiedDiff(expected, actual string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(expected),
		B:        splitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil || diff == "" {
		return fmt.Sprintf("--- expected\n+++ actual\n-%q\n+%q\n", expected, actual)
	}
	return diff
}

// splitLines keeps line terminators so that a missing final newline shows up
// in the diff.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
