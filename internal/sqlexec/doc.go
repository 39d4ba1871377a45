// Package sqlexec runs golden cases against a database/sql connection.
//
// It is the reference golden.Handler used by the sqlgolden command: a case's
// SQL is executed with its .params bound as positional arguments and the
// outcome is rendered as plain text, so that .expected files read like a
// terminal session:
//
//	id	name
//	1	alpha
//	2	NULL
//	(2 rows)
//
// Statements that return no rows render as "OK, N rows affected". Driver
// errors are returned untouched; their Error() text is what .error files hold.
//
// # Drivers
//
//   - sqlite3 (github.com/mattn/go-sqlite3), the default, usually in memory
//   - mysql (github.com/go-sql-driver/mysql)
package sqlexec
