// Package store defines the persistence boundary for named records. A record
// is an opaque byte value under a name, read in full and written in full; the
// reminder collection is the only record the application keeps.
//
// Implementations live under internal/platform (memory, file, sqlite,
// postgres, mongo) and must map their native "absent" condition onto
// ErrRecordNotFound.
package store
