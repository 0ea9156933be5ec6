package cache

import (
	"fmt"
	"strings"
	"time"
)

const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// New builds the cache selected by driver. An empty driver disables caching.
func New(driver string, ttl time.Duration, redisCfg RedisConfig) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverNone:
		return NewNullCache(), nil
	case DriverMemory:
		return NewMemoryCache(ttl)
	case DriverRedis:
		if redisCfg.CacheTTL == 0 {
			redisCfg.CacheTTL = int(ttl / time.Second)
		}
		return NewRedisClient(redisCfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
