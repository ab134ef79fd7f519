package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"zombiezen.com/go/sqlite/sqlitex"
)

//go:embed schema/**/*.sql
var schemaFS embed.FS

// Schema returns the embedded schema filesystem
func Schema() fs.FS {
	fs, err := fs.Sub(schemaFS, "schema")
	if err != nil {
		panic(err) // should never happen since we control the embed path
	}
	return fs
}

// Postgres returns the goose migrations for the postgres document store.
func Postgres() fs.FS {
	sub, err := fs.Sub(schemaFS, "schema/postgres")
	if err != nil {
		panic(err)
	}
	return sub
}

// ApplySqlite runs every app/*.sql script against the pool. The scripts are
// idempotent so this is safe on every start.
func ApplySqlite(ctx context.Context, pool *sqlitex.Pool) error {
	conn, err := pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("failed to get db connection: %w", err)
	}
	defer pool.Put(conn)

	files, err := fs.Glob(Schema(), "app/*.sql")
	if err != nil {
		return err
	}
	for _, name := range files {
		script, err := fs.ReadFile(Schema(), name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := sqlitex.ExecuteScript(conn, string(script), nil); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}
