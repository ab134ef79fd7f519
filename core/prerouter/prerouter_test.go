package prerouter

import (
	"log/slog"
	"testing"

	"github.com/ayomtuase/julieth/cache"
	"github.com/ayomtuase/julieth/cache/ristretto"
	"github.com/ayomtuase/julieth/config"
	"github.com/ayomtuase/julieth/testutil"
)

type testEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	cache  cache.Cache[string, any]
}

func (e *testEnv) Config() *config.Config          { return e.cfg }
func (e *testEnv) Logger() *slog.Logger            { return e.logger }
func (e *testEnv) Cache() cache.Cache[string, any] { return e.cache }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	c, err := ristretto.New[any]("small")
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	t.Cleanup(c.Close)
	return &testEnv{
		cfg:    config.NewDefaultConfig(),
		logger: testutil.MakeNoopLogger(),
		cache:  c,
	}
}
