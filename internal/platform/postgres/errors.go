package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medveritas/medveritas-api/internal/store"
)

// undefinedTableCode is the PostgreSQL error code raised when kv_records has
// not been migrated yet.
const undefinedTableCode = "42P01"

// MapError maps a database error for operation on the named record to a store error.
// It wraps the original error to preserve context and provide better debugging information.
func MapError(operation, name string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", store.ErrRecordNotFound, name)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode {
		return store.StorageFailure(operation, name,
			fmt.Errorf("table missing, run migrations first: %w", err))
	}

	return store.StorageFailure(operation, name, err)
}

// IsUndefinedTable checks if the given error is a PostgreSQL undefined table error.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode
}
