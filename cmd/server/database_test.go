package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medveritas/medveritas-api/internal/config"
	"github.com/medveritas/medveritas-api/internal/platform/migrate"
	"github.com/medveritas/medveritas-api/internal/store"
)

func TestOpenRecordStore(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(dir string) config.StorageConfig
	}{
		{"memory", func(string) config.StorageConfig {
			return config.StorageConfig{Backend: config.BackendMemory}
		}},
		{"file", func(dir string) config.StorageConfig {
			return config.StorageConfig{Backend: config.BackendFile, FileDir: filepath.Join(dir, "records")}
		}},
		{"sqlite", func(dir string) config.StorageConfig {
			return config.StorageConfig{Backend: config.BackendSQLite, SQLitePath: filepath.Join(dir, "medveritas.db")}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backend, err := openRecordStore(ctx, tt.cfg(t.TempDir()), discardLogger())
			require.NoError(t, err)
			defer func() { assert.NoError(t, backend.close()) }()

			_, err = backend.store.Get(ctx, "med_reminders")
			assert.ErrorIs(t, err, store.ErrRecordNotFound)

			require.NoError(t, backend.store.Put(ctx, "med_reminders", []byte(`[]`)))
			got, err := backend.store.Get(ctx, "med_reminders")
			require.NoError(t, err)
			assert.JSONEq(t, `[]`, string(got))
		})
	}
}

func TestOpenRecordStore_Unsupported(t *testing.T) {
	_, err := openRecordStore(context.Background(), config.StorageConfig{Backend: "redis"}, discardLogger())
	assert.ErrorContains(t, err, `unsupported storage backend "redis"`)
}

func TestApplyMigrations_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.StorageConfig{Backend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "m.db")}

	for _, command := range []string{migrate.CommandUp, migrate.CommandStatus, migrate.CommandDown, migrate.CommandUp} {
		require.NoError(t, applyMigrations(ctx, cfg, discardLogger(), command), command)
	}
	assert.Error(t, applyMigrations(ctx, cfg, discardLogger(), "redo"))
}

func TestApplyMigrations_NonSQLBackend(t *testing.T) {
	for _, backend := range []string{config.BackendMemory, config.BackendFile, config.BackendMongo} {
		err := applyMigrations(context.Background(), config.StorageConfig{Backend: backend}, discardLogger(), migrate.CommandUp)
		assert.ErrorContains(t, err, "has no schema to migrate", backend)
	}
}
