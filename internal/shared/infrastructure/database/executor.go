package database

import "context"

// Row is a single result row; satisfied by pgx.Row and *sql.Row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result cursor; satisfied by *sql.Rows.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result reports the outcome of an Exec; satisfied by sql.Result.
type Result interface {
	RowsAffected() (int64, error)
}

// Executor runs statements independent of the driver.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Connection is an open database handle.
type Connection interface {
	Executor
	Ping(ctx context.Context) error
	Close() error
	Driver() Driver
}
