package h

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/julianladisch/stripes-core/log"
)

// Cache is a small in-process cache used to memoise rendered messages and
// compiled localizers. Entries expire after an hour; the translation bundle
// itself is immutable once loaded, so staleness only matters for tenant
// overrides.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	GetOrSet(key string, function func() (any, error)) any
	// Wait blocks until pending writes are visible. Tests need this because
	// ristretto admits entries asynchronously.
	Wait()
}

type cacheImpl struct {
	internal *ristretto.Cache[string, any]
}

func NewCache() Cache {
	internal, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: 10_000,
		MaxCost:     10_000,
		BufferItems: 64,
	})
	if err != nil {
		log.Fatal("failed to create cache: %v", err)
	}
	return &cacheImpl{
		internal: internal,
	}
}

func (c *cacheImpl) Get(key string) (any, bool) {
	return c.internal.Get(key)
}

func (c *cacheImpl) GetOrSet(key string, function func() (any, error)) any {
	if val, ok := c.internal.Get(key); ok {
		return val
	}
	value, err := function()
	if err != nil {
		log.Error("failed to compute cache entry: %v", err)
		return nil
	}
	c.internal.SetWithTTL(key, value, 1, time.Hour)
	return value
}

func (c *cacheImpl) Set(key string, value any) {
	c.internal.SetWithTTL(key, value, 1, time.Hour)
}

func (c *cacheImpl) Wait() {
	c.internal.Wait()
}
