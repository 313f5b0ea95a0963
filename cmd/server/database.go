package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/medveritas/medveritas-api/internal/config"
	"github.com/medveritas/medveritas-api/internal/platform/filestore"
	"github.com/medveritas/medveritas-api/internal/platform/memory"
	"github.com/medveritas/medveritas-api/internal/platform/migrate"
	mongostore "github.com/medveritas/medveritas-api/internal/platform/mongo"
	"github.com/medveritas/medveritas-api/internal/platform/postgres"
	"github.com/medveritas/medveritas-api/internal/platform/sqlite"
	"github.com/medveritas/medveritas-api/internal/store"
)

// recordBackend is an opened record store and the function releasing its
// connections.
type recordBackend struct {
	store store.RecordStore
	close func() error
}

func noClose() error { return nil }

// sqlTarget is a SQL backend opened through database/sql, which goose needs.
type sqlTarget struct {
	db         *sql.DB
	dialect    goose.Dialect
	migrations fs.FS
}

// openSQLTarget opens the configured SQL backend for migrations. Other
// backends have no schema and are rejected.
func openSQLTarget(cfg config.StorageConfig) (*sqlTarget, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &sqlTarget{db: db, dialect: migrate.DialectSQLite, migrations: sqlite.Migrations()}, nil
	case config.BackendPostgres:
		db, err := postgres.OpenDB(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &sqlTarget{db: db, dialect: migrate.DialectPostgres, migrations: postgres.Migrations()}, nil
	default:
		return nil, fmt.Errorf("storage backend %q has no schema to migrate", cfg.Backend)
	}
}

// applyMigrations runs a migration command against the configured SQL backend.
func applyMigrations(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger, command string) error {
	target, err := openSQLTarget(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := target.db.Close(); err != nil {
			logger.Error("Error closing migration connection", "error", err)
		}
	}()

	if cfg.Backend == config.BackendPostgres {
		logger.Info("Running migrations", "database_url", migrate.MaskDatabaseURL(cfg.DatabaseURL))
	}
	return migrate.Run(ctx, logger, target.dialect, target.db, target.migrations, command)
}

// openRecordStore connects the configured storage backend. SQL backends are
// migrated up before the store is returned.
func openRecordStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*recordBackend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return &recordBackend{store: memory.NewRecordStore(), close: noClose}, nil

	case config.BackendFile:
		s, err := filestore.NewRecordStore(cfg.FileDir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open file store: %w", err)
		}
		return &recordBackend{store: s, close: noClose}, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := migrate.Run(ctx, logger, migrate.DialectSQLite, db, sqlite.Migrations(), migrate.CommandUp); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
		return &recordBackend{store: sqlite.NewSQLiteRecordStore(db, logger), close: db.Close}, nil

	case config.BackendPostgres:
		if err := applyMigrations(ctx, cfg, logger, migrate.CommandUp); err != nil {
			return nil, fmt.Errorf("failed to migrate postgres database: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &recordBackend{
			store: postgres.NewPostgresRecordStore(pool, logger),
			close: func() error { pool.Close(); return nil },
		}, nil

	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return &recordBackend{
			store: mongostore.NewMongoRecordStore(db, logger),
			close: func() error { return client.Disconnect(context.Background()) },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
