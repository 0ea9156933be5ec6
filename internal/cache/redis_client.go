package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Cache = (*RedisClient)(nil)

type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	CacheTTL     int // seconds
}

func NewRedisClient(cfg RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, NewCacheError("connect", "", fmt.Errorf("failed to connect to Redis: %w", err))
	}

	return &RedisClient{
		client: client,
		ttl:    time.Duration(cfg.CacheTTL) * time.Second,
	}, nil
}

func (r *RedisClient) Set(ctx context.Context, key string, value interface{}) error {
	return r.SetWithTTL(ctx, key, value, r.ttl)
}

func (r *RedisClient) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if key == "" {
		return NewCacheError("set", key, ErrInvalidCacheKey)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return NewCacheError("set", key, fmt.Errorf("failed to marshal value: %w", err))
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return NewCacheError("set", key, err)
	}

	return nil
}

func (r *RedisClient) Get(ctx context.Context, key string, dest interface{}) error {
	if key == "" {
		return NewCacheError("get", key, ErrInvalidCacheKey)
	}

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return NewCacheError("get", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return NewCacheError("get", key, fmt.Errorf("failed to unmarshal value: %w", err))
	}

	return nil
}

func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	validKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != "" {
			validKeys = append(validKeys, key)
		}
	}

	if len(validKeys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, validKeys...).Err(); err != nil {
		return NewCacheError("delete", "", err)
	}

	return nil
}

func (r *RedisClient) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, NewCacheError("exists", key, ErrInvalidCacheKey)
	}

	result, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, NewCacheError("exists", key, err)
	}

	return result > 0, nil
}

func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return NewCacheError("ping", "", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	if err := r.client.Close(); err != nil {
		return NewCacheError("close", "", err)
	}
	return nil
}
