package postgres

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations returns the goose migration files for the PostgreSQL schema.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		// The directory is embedded at compile time.
		panic(err)
	}
	return sub
}
