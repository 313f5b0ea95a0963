package store

import (
	"context"
	"database/sql"
)

// DBTX is an interface that abstracts the database/sql access layer.
// It is implemented by both *sql.DB and *sql.Tx, so SQL record stores can
// run against either a connection pool or a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
