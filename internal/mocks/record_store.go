package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/medveritas/medveritas-api/internal/store"
)

// MockRecordStore implements store.RecordStore for testing. Without function
// fields it behaves like an in-memory store.
type MockRecordStore struct {
	GetFn func(ctx context.Context, name string) ([]byte, error)
	PutFn func(ctx context.Context, name string, value []byte) error

	mu      sync.Mutex
	Records map[string][]byte
	Puts    int
}

var _ store.RecordStore = (*MockRecordStore)(nil)

// NewMockRecordStore creates a MockRecordStore holding the given records.
func NewMockRecordStore(records map[string][]byte) *MockRecordStore {
	if records == nil {
		records = make(map[string][]byte)
	}
	return &MockRecordStore{Records: records}
}

// Get implements store.RecordStore
func (m *MockRecordStore) Get(ctx context.Context, name string) ([]byte, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.Records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrRecordNotFound, name)
	}
	return append([]byte{}, value...), nil
}

// Put implements store.RecordStore
func (m *MockRecordStore) Put(ctx context.Context, name string, value []byte) error {
	m.mu.Lock()
	m.Puts++
	m.mu.Unlock()

	if m.PutFn != nil {
		return m.PutFn(ctx, name, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Records == nil {
		m.Records = make(map[string][]byte)
	}
	m.Records[name] = append([]byte{}, value...)
	return nil
}

// Value returns the stored bytes of name, or nil.
func (m *MockRecordStore) Value(name string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Records[name]
}
