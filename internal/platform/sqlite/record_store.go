package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/medveritas/medveritas-api/internal/platform/logger"
	"github.com/medveritas/medveritas-api/internal/store"
)

const recordsTable = "kv_records"

// SQLiteRecordStore implements store.RecordStore on a SQLite database.
type SQLiteRecordStore struct {
	db     store.DBTX
	logger *slog.Logger
	sql    sq.StatementBuilderType
	now    func() time.Time
}

var _ store.RecordStore = (*SQLiteRecordStore)(nil)

// NewSQLiteRecordStore creates a record store over db, which may be a
// connection or a transaction.
func NewSQLiteRecordStore(db store.DBTX, logger *slog.Logger) *SQLiteRecordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRecordStore{
		db:     db,
		logger: logger.With(slog.String("component", "record_store"), slog.String("backend", "sqlite")),
		sql:    sq.StatementBuilder.PlaceholderFormat(sq.Question),
		now:    time.Now,
	}
}

// Get implements store.RecordStore.Get.
func (s *SQLiteRecordStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := store.ValidateRecordName(name); err != nil {
		return nil, err
	}

	query, args, err := s.sql.Select("value").From(recordsTable).Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return nil, store.StorageFailure("get", name, err)
	}

	var value []byte
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrRecordNotFound, name)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read record",
			slog.String("record", name), slog.String("error", err.Error()))
		return nil, store.StorageFailure("get", name, err)
	}
	return value, nil
}

// Put implements store.RecordStore.Put as a single upsert.
func (s *SQLiteRecordStore) Put(ctx context.Context, name string, value []byte) error {
	if err := store.ValidateRecordName(name); err != nil {
		return err
	}

	query, args, err := s.sql.
		Insert(recordsTable).
		Columns("name", "value", "updated_at").
		Values(name, value, s.now().UTC()).
		Suffix("ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return store.StorageFailure("put", name, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to write record",
			slog.String("record", name), slog.String("error", err.Error()))
		return store.StorageFailure("put", name, err)
	}
	return nil
}
