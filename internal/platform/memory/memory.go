// Package memory provides an in-process store.RecordStore. Records do not
// survive a restart; it backs tests and throwaway deployments.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/medveritas/medveritas-api/internal/store"
)

// RecordStore keeps records in a map guarded by a RWMutex.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

var _ store.RecordStore = (*RecordStore)(nil)

// NewRecordStore returns an empty in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[string][]byte)}
}

// Get returns a copy of the named record.
func (s *RecordStore) Get(_ context.Context, name string) ([]byte, error) {
	if err := store.ValidateRecordName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrRecordNotFound, name)
	}
	return bytes.Clone(value), nil
}

// Put stores a copy of value under name.
func (s *RecordStore) Put(_ context.Context, name string, value []byte) error {
	if err := store.ValidateRecordName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[name] = append([]byte{}, value...)
	return nil
}
