// Package filestore provides a store.RecordStore that keeps each record as a
// JSON file in a directory, the closest server-side analogue of browser local
// storage.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/medveritas/medveritas-api/internal/platform/logger"
	"github.com/medveritas/medveritas-api/internal/store"
)

const fileExt = ".json"

// RecordStore stores one file per record under dir.
type RecordStore struct {
	dir    string
	logger *slog.Logger
	mu     sync.Mutex
}

var _ store.RecordStore = (*RecordStore)(nil)

// NewRecordStore creates dir if needed and returns a store rooted there.
func NewRecordStore(dir string, logger *slog.Logger) (*RecordStore, error) {
	if dir == "" {
		return nil, errors.New("directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create record directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordStore{
		dir:    dir,
		logger: logger.With(slog.String("component", "record_store"), slog.String("backend", "file")),
	}, nil
}

// Get reads the record file.
func (s *RecordStore) Get(ctx context.Context, name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", store.ErrRecordNotFound, name)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read record",
			slog.String("record", name), slog.String("error", err.Error()))
		return nil, store.StorageFailure("get", name, err)
	}
	return value, nil
}

// Put writes value to a temp file in the same directory and renames it over
// the record file, so readers never see a partial write.
func (s *RecordStore) Put(ctx context.Context, name string, value []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(path, value); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to write record",
			slog.String("record", name), slog.String("error", err.Error()))
		return store.StorageFailure("put", name, err)
	}
	return nil
}

// path maps a record name to its file, rejecting names that would escape dir.
func (s *RecordStore) path(name string) (string, error) {
	if err := store.ValidateRecordName(name); err != nil {
		return "", err
	}
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", store.ErrInvalidRecordName, name)
	}
	return filepath.Join(s.dir, name+fileExt), nil
}

func writeFileAtomic(path string, value []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
