package f

import (
	"context"
	"time"
)

// CacheProvider is a shared cache for merged bundles and their ETags, so a
// fleet of bundle servers can agree on what clients already hold.
type CacheProvider interface {
	Init() error
	Close() error
	Ping() error
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, duration time.Duration) error
}
