package ristretto

import (
	"fmt"
	"time"

	"github.com/ayomtuase/julieth/cache"
	"github.com/dgraph-io/ristretto/v2"
)

// Cache is a string keyed ristretto cache.
type Cache[V any] struct {
	cache *ristretto.Cache[string, V]
}

var _ cache.Cache[string, int] = (*Cache[int])(nil)

func (rc *Cache[V]) Get(key string) (V, bool) {
	return rc.cache.Get(key)
}

func (rc *Cache[V]) Set(key string, value V, cost int64) bool {
	return rc.cache.Set(key, value, cost)
}

func (rc *Cache[V]) SetWithTTL(key string, value V, cost int64, ttl time.Duration) bool {
	return rc.cache.SetWithTTL(key, value, cost, ttl)
}

func (rc *Cache[V]) Del(key string) {
	rc.cache.Del(key)
}

func (rc *Cache[V]) Wait() {
	rc.cache.Wait()
}

func (rc *Cache[V]) Close() {
	rc.cache.Close()
}

type sizing struct {
	numCounters int64
	maxCost     int64
}

// Levels size the cache. Callers set a cost of 1 per item and the internal
// per-item cost is ignored, so MaxCost bounds the number of entries.
var levels = map[string]sizing{
	"small":      {numCounters: 1e4, maxCost: 1e3},
	"medium":     {numCounters: 1e5, maxCost: 1e4},
	"large":      {numCounters: 1e6, maxCost: 1e5},
	"very-large": {numCounters: 1e7, maxCost: 1e6},
}

// New creates a cache of the given size level: small, medium, large or
// very-large.
func New[V any](level string) (*Cache[V], error) {
	size, ok := levels[level]
	if !ok {
		return nil, fmt.Errorf("ristretto: unknown cache level %q", level)
	}

	c, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters:        size.numCounters, // number of keys to track frequency of
		MaxCost:            size.maxCost,
		BufferItems:        64, // number of keys per Get buffer
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}

	return &Cache[V]{cache: c}, nil
}
