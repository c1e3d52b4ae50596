package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheService stores JSON-encoded payloads in Redis with per-key TTLs.
type CacheService struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("cache host is required")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("cache port is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &CacheService{rdb: rdb, logger: logger}, nil
}

// Get unmarshals the value stored under key into out. A missing key is not an
// error; out is left untouched so callers detect absence by zero fields.
func (c *CacheService) Get(ctx context.Context, key string, out any) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("cache decode %s: %w", key, err)
	}
	return nil
}

// Set stores val under key as JSON with the given TTL. A zero TTL persists
// the key until overwritten or deleted.
func (c *CacheService) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *CacheService) Del(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache del %s: %w", key, err)
	}
	return nil
}

func (c *CacheService) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *CacheService) Close() error {
	return c.rdb.Close()
}
