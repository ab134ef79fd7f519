package julieth

import (
	"context"
	"fmt"
	"runtime"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/ayomtuase/julieth/config"
	"github.com/ayomtuase/julieth/docstore"
	"github.com/ayomtuase/julieth/docstore/minio"
	"github.com/ayomtuase/julieth/docstore/postgres"
	"github.com/ayomtuase/julieth/docstore/zombiezen"
	"github.com/ayomtuase/julieth/migrations"
)

// NewZombiezenPool creates a sqlite pool with the default zombiezen flags
// (read write, create, WAL, URI) and the app schema applied. The same pool
// serves the sqlite document store and the local identity provider.
func NewZombiezenPool(ctx context.Context, dbPath string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool(fmt.Sprintf("file:%s", dbPath), sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create zombiezen pool at %s: %w", dbPath, err)
	}
	if err := migrations.ApplySqlite(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema at %s: %w", dbPath, err)
	}
	return pool, nil
}

// openStore returns the document store of store.driver and a func releasing
// what it opened.
func openStore(ctx context.Context, cfg config.Store, pool func() (*sqlitex.Pool, error)) (docstore.Store, func(), error) {
	switch cfg.Driver {
	case config.StorePostgres:
		if err := postgres.Migrate(ctx, cfg.PostgresDSN); err != nil {
			return nil, nil, err
		}
		s, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.StoreMinio:
		s, err := minio.Connect(ctx, minio.Config{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	default:
		p, err := pool()
		if err != nil {
			return nil, nil, err
		}
		s, err := zombiezen.New(p)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}
