package postgres

import (
	"context"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medveritas/medveritas-api/internal/platform/logger"
	"github.com/medveritas/medveritas-api/internal/store"
)

const recordsTable = "kv_records"

// Querier is the subset of *pgxpool.Pool used by the record store.
// pgxmock.PgxPoolIface satisfies it as well.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRecordStore implements the store.RecordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRecordStore struct {
	db     Querier
	logger *slog.Logger
	psql   sq.StatementBuilderType
	now    func() time.Time
}

// Ensure PostgresRecordStore implements store.RecordStore interface
var _ store.RecordStore = (*PostgresRecordStore)(nil)

// NewPostgresRecordStore creates a new PostgreSQL implementation of the RecordStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresRecordStore(db Querier, logger *slog.Logger) *PostgresRecordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRecordStore{
		db:     db,
		logger: logger.With(slog.String("component", "record_store"), slog.String("backend", "postgres")),
		psql:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now:    time.Now,
	}
}

// Get implements store.RecordStore.Get.
// Returns store.ErrRecordNotFound if the record has never been written.
func (s *PostgresRecordStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := store.ValidateRecordName(name); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.psql.
		Select("value").
		From(recordsTable).
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, store.StorageFailure("get", name, err)
	}

	var value []byte
	if err := s.db.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		mapped := MapError("get", name, err)
		if !store.IsNotFoundError(mapped) {
			log.Error("failed to read record",
				slog.String("record", name),
				slog.String("error", err.Error()))
		}
		return nil, mapped
	}

	log.Debug("record read", slog.String("record", name), slog.Int("bytes", len(value)))
	return value, nil
}

// Put implements store.RecordStore.Put as a single upsert.
func (s *PostgresRecordStore) Put(ctx context.Context, name string, value []byte) error {
	if err := store.ValidateRecordName(name); err != nil {
		return err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.psql.
		Insert(recordsTable).
		Columns("name", "value", "updated_at").
		Values(name, value, s.now().UTC()).
		Suffix("ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return store.StorageFailure("put", name, err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		log.Error("failed to write record",
			slog.String("record", name),
			slog.String("error", err.Error()))
		return MapError("put", name, err)
	}

	log.Debug("record written", slog.String("record", name), slog.Int("bytes", len(value)))
	return nil
}
