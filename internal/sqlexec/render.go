package sqlexec

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// rowStatements are the leading keywords of statements that produce a result set.
var rowStatements = map[string]bool{
	"SELECT":   true,
	"WITH":     true,
	"VALUES":   true,
	"SHOW":     true,
	"EXPLAIN":  true,
	"PRAGMA":   true,
	"DESCRIBE": true,
	"DESC":     true,
}

// returnsRows decides between Query and Exec from the first keyword of stmt.
func returnsRows(stmt string) bool {
	s := skipComments(stmt)
	if strings.HasPrefix(s, "(") {
		return true
	}
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		end = len(s)
	}
	return rowStatements[strings.ToUpper(s[:end])]
}

// skipComments drops leading whitespace, "--" line comments and /* */ blocks.
func skipComments(s string) string {
	for {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		switch {
		case strings.HasPrefix(s, "--"):
			i := strings.IndexByte(s, '\n')
			if i < 0 {
				return ""
			}
			s = s[i+1:]
		case strings.HasPrefix(s, "/*"):
			i := strings.Index(s, "*/")
			if i < 0 {
				return ""
			}
			s = s[i+2:]
		default:
			return s
		}
	}
}

func formatRow(values []any) string {
	fields := make([]string, len(values))
	for i, v := range values {
		fields[i] = formatValue(v)
	}
	return strings.Join(fields, "\t")
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

func renderTable(cols []string, rows []string) string {
	var sb strings.Builder
	if len(cols) > 0 {
		sb.WriteString(strings.Join(cols, "\t"))
		sb.WriteByte('\n')
	}
	for _, row := range rows {
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	n := int64(len(rows))
	fmt.Fprintf(&sb, "(%d %s)\n", n, plural(n, "row", "rows"))
	return sb.String()
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
