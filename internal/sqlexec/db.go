package sqlexec

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// DB is a database connection dedicated to running cases.
type DB struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the logger used for per-statement debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(d *DB) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Open connects to the database and verifies the connection.
//
// For sqlite3 the pool is limited to a single connection so that every
// statement sees the same in-memory database.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &DB{
		db:     db,
		driver: driver,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Driver returns the driver name the DB was opened with.
func (d *DB) Driver() string {
	return d.driver
}

// Reset executes setup statements in order, stopping at the first failure.
func (d *DB) Reset(ctx context.Context, setup []string) error {
	for i, stmt := range setup {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("setup[%d] failed: %w", i, err)
		}
		d.logger.Debug("setup statement executed", "index", i)
	}
	return nil
}

// Run executes one statement and renders its outcome as text.
// Errors from the driver are returned unwrapped.
func (d *DB) Run(ctx context.Context, stmt string, params []string) (string, error) {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p
	}

	if returnsRows(stmt) {
		d.logger.Debug("running query", "params", len(args))
		return d.query(ctx, stmt, args)
	}

	d.logger.Debug("running statement", "params", len(args))
	res, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("OK, %d %s affected\n", n, plural(n, "row", "rows")), nil
}

func (d *DB) query(ctx context.Context, stmt string, args []any) (string, error) {
	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}

	var out []string
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", err
		}
		out = append(out, formatRow(values))
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	return renderTable(cols, out), nil
}
