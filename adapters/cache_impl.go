package adapters

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	f "github.com/julianladisch/stripes-core/core"
	"github.com/julianladisch/stripes-core/h"
	"github.com/julianladisch/stripes-core/log"
)

// NewCacheProvider builds a shared cache from a config string: "memory" or
// a redis:// URL. The bundle server keeps merged bundles and ETags here so
// every instance answers conditional requests consistently.
func NewCacheProvider(provider string) f.CacheProvider {
	if provider == "" || provider == "memory" {
		return NewInMemoryCacheProvider()
	}
	res, err := h.ParseUrl(provider)
	if err != nil {
		log.Fatal("failed to parse cache provider: %v", err)
	}
	switch res.Scheme {
	case "redis":
		log.Info("using redis cache provider...")
		return NewRedisCacheProvider(res)
	default:
		log.Fatal("unsupported cache provider: %s", provider)
	}
	return nil
}

// ------------------------------------------------------------------------------------------------------------------
// REDIS CACHE PROVIDER IMPL
// ------------------------------------------------------------------------------------------------------------------

type redisCacheProvider struct {
	client *redis.Client
}

func NewRedisCacheProvider(cfg h.Url) f.CacheProvider {
	db := 0
	// redis://host/2 and redis://host?db=2 both select database 2.
	if cfg.HasQueryParam("db") {
		if parsed, err := strconv.Atoi(cfg.Query("db")); err == nil {
			db = parsed
		}
	} else if cfg.Path != "" {
		value := strings.TrimPrefix(cfg.Path, "/")
		if parsed, err := strconv.Atoi(value); err == nil {
			db = parsed
		}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host,
		Username: cfg.User,
		Password: cfg.Password,
		DB:       db,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Fatal("failed to ping redis: %v", err)
	}
	log.Info("redis connection successful")
	return &redisCacheProvider{client: client}
}

func (p *redisCacheProvider) Init() error {
	return nil
}

func (p *redisCacheProvider) Close() error {
	return p.client.Close()
}

func (p *redisCacheProvider) Ping() error {
	return p.client.Ping(context.Background()).Err()
}

func (p *redisCacheProvider) Get(ctx context.Context, key string) (any, error) {
	value, err := p.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (p *redisCacheProvider) Set(ctx context.Context, key string, value any, duration time.Duration) error {
	return p.client.Set(ctx, key, value, duration).Err()
}

// ------------------------------------------------------------------------------------------------------------------
// IN-MEMORY CACHE PROVIDER IMPL
// ------------------------------------------------------------------------------------------------------------------

type inMemoryCacheProvider struct {
	mu    sync.RWMutex
	cache map[string]any
}

func NewInMemoryCacheProvider() f.CacheProvider {
	return &inMemoryCacheProvider{cache: make(map[string]any)}
}

func (p *inMemoryCacheProvider) Init() error {
	return nil
}

func (p *inMemoryCacheProvider) Close() error {
	return nil
}

func (p *inMemoryCacheProvider) Ping() error {
	return nil
}

func (p *inMemoryCacheProvider) Get(_ context.Context, key string) (any, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cache[key], nil
}

func (p *inMemoryCacheProvider) Set(_ context.Context, key string, value any, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache[key] = value
	return nil
}
