package migrations

import (
	"context"
	"io/fs"
	"reflect"
	"sort"
	"testing"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// TestSchemaAccess verifies that all expected .sql files are embedded correctly.
func TestSchemaAccess(t *testing.T) {
	expectedFiles := []string{
		"app/accounts.sql",
		"app/documents.sql",
		"postgres/00001_documents.sql",
	}

	var foundFiles []string
	err := fs.WalkDir(Schema(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			foundFiles = append(foundFiles, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk embedded schema files: %v", err)
	}

	sort.Strings(expectedFiles)
	sort.Strings(foundFiles)

	if !reflect.DeepEqual(expectedFiles, foundFiles) {
		t.Errorf("mismatch in embedded schema files.\nGot:  %v\nWant: %v", foundFiles, expectedFiles)
	}
}

func TestPostgresFS(t *testing.T) {
	if _, err := fs.Stat(Postgres(), "00001_documents.sql"); err != nil {
		t.Errorf("postgres migration not found: %v", err)
	}
}

// TestApplySqlite applies the sqlite scripts twice on an in-memory database to
// check they are valid and idempotent.
func TestApplySqlite(t *testing.T) {
	pool, err := sqlitex.NewPool("file::memory:", sqlitex.PoolOptions{
		PoolSize: 1,
	})
	if err != nil {
		t.Fatalf("failed to create db pool: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("failed to close db pool: %v", err)
		}
	})

	for i := 0; i < 2; i++ {
		if err := ApplySqlite(context.Background(), pool); err != nil {
			t.Fatalf("ApplySqlite() run %d error = %v", i+1, err)
		}
	}

	conn, err := pool.Take(context.Background())
	if err != nil {
		t.Fatalf("failed to get db connection: %v", err)
	}
	defer pool.Put(conn)

	var tables []string
	err = sqlitex.Execute(conn, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			tables = append(tables, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}

	want := []string{"account_links", "accounts", "documents"}
	if !reflect.DeepEqual(tables, want) {
		t.Errorf("tables = %v, want %v", tables, want)
	}
}
