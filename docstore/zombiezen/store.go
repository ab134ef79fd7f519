// Package zombiezen stores documents as JSON rows in sqlite.
package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/ayomtuase/julieth/docstore"
)

var (
	_ docstore.Store   = (*Store)(nil)
	_ docstore.Counter = (*Store)(nil)
)

// Store uses a pool owned by the caller and never closes it.
type Store struct {
	pool *sqlitex.Pool
}

func New(pool *sqlitex.Pool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("provided pool cannot be nil")
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := docstore.CheckCollection(collection); err != nil {
		return "", err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return "", err
	}
	defer s.pool.Put(conn)

	var id string
	err = sqlitex.Execute(conn,
		`INSERT INTO documents (id, collection, data) VALUES (?, ?, ?) RETURNING id`,
		&sqlitex.ExecOptions{
			Args: []any{uuid.NewString(), collection, string(data)},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				id = stmt.GetText("id")
				return nil
			},
		})
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

func (s *Store) Count(ctx context.Context, collection, field, value string) (int, error) {
	if err := docstore.CheckCollection(collection); err != nil {
		return 0, err
	}
	if err := docstore.CheckField(field); err != nil {
		return 0, err
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer s.pool.Put(conn)

	var n int
	err = sqlitex.Execute(conn,
		`SELECT count(*) FROM documents WHERE collection = ? AND json_extract(data, ?) = ?`,
		&sqlitex.ExecOptions{
			Args: []any{collection, "$." + field, value},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				n = stmt.ColumnInt(0)
				return nil
			},
		})
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// Get returns the fields of one document, nil when it does not exist.
func (s *Store) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	var fields map[string]any
	err = sqlitex.Execute(conn,
		`SELECT data FROM documents WHERE collection = ? AND id = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			Args: []any{collection, id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				return json.Unmarshal([]byte(stmt.GetText("data")), &fields)
			},
		})
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return fields, nil
}
