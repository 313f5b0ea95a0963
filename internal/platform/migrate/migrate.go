// Package migrate runs the embedded goose migrations for the SQL record
// store backends.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
)

// Supported migration commands.
const (
	CommandUp     = "up"
	CommandDown   = "down"
	CommandStatus = "status"
)

// Dialects accepted by Run.
const (
	DialectPostgres = goose.DialectPostgres
	DialectSQLite   = goose.DialectSQLite3
)

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error.
// It does NOT call os.Exit; the error is returned to the caller instead.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Run executes command ("up", "down" or "status") against db using the
// migrations in fsys.
func Run(
	ctx context.Context,
	logger *slog.Logger,
	dialect goose.Dialect,
	db *sql.DB,
	fsys fs.FS,
	command string,
) error {
	if logger == nil {
		logger = slog.Default()
	}
	// Use a correlation ID for all migration logs to allow tracing the entire operation
	log := logger.With(
		"correlation_id", uuid.New().String(),
		"component", "migrations",
		"command", command,
		"dialect", string(dialect),
	)

	provider, err := goose.NewProvider(dialect, db, fsys, goose.WithLogger(&slogGooseLogger{logger: log}))
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	start := time.Now()
	log.Info("Starting migration operation")

	switch command {
	case CommandUp:
		results, err := provider.Up(ctx)
		for _, r := range results {
			logResult(log, r)
		}
		if err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
	case CommandDown:
		result, err := provider.Down(ctx)
		if result != nil {
			logResult(log, result)
		}
		if err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
	case CommandStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
		for _, s := range statuses {
			log.Info("Migration status",
				"version", s.Source.Version,
				"path", s.Source.Path,
				"state", string(s.State),
				"applied_at", s.AppliedAt)
		}
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}

	log.Info("Migration operation completed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func logResult(log *slog.Logger, r *goose.MigrationResult) {
	if r == nil || r.Source == nil {
		return
	}
	attrs := []any{
		"version", r.Source.Version,
		"path", r.Source.Path,
		"direction", r.Direction,
		"duration_ms", r.Duration.Milliseconds(),
	}
	if r.Error != nil {
		log.Error("Migration failed", append(attrs, "error", r.Error)...)
		return
	}
	log.Info("Migration applied", attrs...)
}

// MaskDatabaseURL masks the password in a database URL for safe logging.
func MaskDatabaseURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}

	if parsedURL.User != nil {
		username := parsedURL.User.Username()
		parsedURL.User = url.UserPassword(username, "****")
		return parsedURL.String()
	}

	return dbURL
}
