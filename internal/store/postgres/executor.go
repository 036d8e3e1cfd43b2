package postgres

import (
	"context"
	"database/sql"
)

// executor abstracts over *sql.DB and *sql.Tx so a repository can run
// either standalone or scoped to an in-flight transaction.
type executor interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}
