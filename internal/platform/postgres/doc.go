// Package postgres provides the PostgreSQL implementation of store.RecordStore.
// Records live in the kv_records table, created by the goose migrations
// embedded in this package. Queries run through pgx; statements are built with
// squirrel using dollar placeholders.
package postgres
