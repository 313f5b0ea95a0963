package store

import "context"

// RecordStore reads and writes whole named records.
type RecordStore interface {
	// Get returns the stored value of the named record.
	// Returns ErrRecordNotFound if the record has never been written.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put replaces the value of the named record, creating it if needed.
	Put(ctx context.Context, name string, value []byte) error
}
