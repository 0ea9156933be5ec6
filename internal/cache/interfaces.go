package cache

import "context"

// Cache stores JSON-encoded values by key. Entries expire after the
// implementation's configured TTL.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}) error
	// Get decodes the value into dest or returns ErrCacheMiss.
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	HealthCheck(ctx context.Context) error
	Close() error
}

// NullCache is used when caching is disabled: every read misses.
type NullCache struct{}

func NewNullCache() *NullCache {
	return &NullCache{}
}

func (n *NullCache) Set(ctx context.Context, key string, value interface{}) error {
	return nil
}

func (n *NullCache) Get(ctx context.Context, key string, dest interface{}) error {
	return ErrCacheMiss
}

func (n *NullCache) Delete(ctx context.Context, keys ...string) error {
	return nil
}

func (n *NullCache) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (n *NullCache) HealthCheck(ctx context.Context) error {
	return nil
}

func (n *NullCache) Close() error {
	return nil
}
