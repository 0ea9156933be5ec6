package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v2"
)

var _ Cache = (*MemoryCache)(nil)

// MemoryCache keeps entries in process for one global life window.
type MemoryCache struct {
	cache *bigcache.BigCache
}

func NewMemoryCache(ttl time.Duration) (*MemoryCache, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}

	cfg := bigcache.DefaultConfig(ttl)
	cfg.Shards = 64
	cfg.CleanWindow = ttl / 2
	cfg.MaxEntrySize = 512
	cfg.HardMaxCacheSize = 64 // MB
	cfg.Verbose = false

	bc, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, NewCacheError("init", "", err)
	}

	return &MemoryCache{cache: bc}, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value interface{}) error {
	if key == "" {
		return NewCacheError("set", key, ErrInvalidCacheKey)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return NewCacheError("set", key, fmt.Errorf("failed to marshal value: %w", err))
	}

	if err := m.cache.Set(key, data); err != nil {
		return NewCacheError("set", key, err)
	}
	return nil
}

func (m *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	if key == "" {
		return NewCacheError("get", key, ErrInvalidCacheKey)
	}

	data, err := m.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return ErrCacheMiss
		}
		return NewCacheError("get", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return NewCacheError("get", key, fmt.Errorf("failed to unmarshal value: %w", err))
	}
	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := m.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
			return NewCacheError("delete", key, err)
		}
	}
	return nil
}

func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, NewCacheError("exists", key, ErrInvalidCacheKey)
	}

	if _, err := m.cache.Get(key); err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return false, nil
		}
		return false, NewCacheError("exists", key, err)
	}
	return true, nil
}

func (m *MemoryCache) HealthCheck(ctx context.Context) error {
	return nil
}

func (m *MemoryCache) Close() error {
	return m.cache.Close()
}
