package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/pfinance/pfinance_service/internal/infrastructure/config"
)

const keyPrefix = "pfinance:"

// RedisClient is the subset of cache operations used by the quote cache and invalidator
type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Keys(ctx context.Context, pattern string) ([]string, error)
}

type DistributedCache struct {
	client     redis.UniversalClient
	logger     *zap.Logger
	prefix     string
	defaultTTL time.Duration
}

// NewRedisClient connects to the configured Redis instance
func NewRedisClient(cfg config.RedisConfig) (redis.UniversalClient, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewDistributedCache(client redis.UniversalClient, logger *zap.Logger) *DistributedCache {
	return &DistributedCache{
		client:     client,
		logger:     logger,
		prefix:     keyPrefix,
		defaultTTL: time.Minute,
	}
}

// Get returns "" without error when the key does not exist
func (dc *DistributedCache) Get(ctx context.Context, key string) (string, error) {
	fullKey := dc.prefix + key
	val, err := dc.client.Get(ctx, fullKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (dc *DistributedCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	fullKey := dc.prefix + key
	if ttl == 0 {
		ttl = dc.defaultTTL
	}
	return dc.client.Set(ctx, fullKey, value, ttl).Err()
}

func (dc *DistributedCache) Del(ctx context.Context, key string) error {
	fullKey := dc.prefix + key
	return dc.client.Del(ctx, fullKey).Err()
}

func (dc *DistributedCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	fullKey := dc.prefix + key
	return dc.client.Expire(ctx, fullKey, ttl).Err()
}

// Keys scans for keys matching pattern and returns them without the prefix
func (dc *DistributedCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	fullPattern := dc.prefix + pattern
	var keys []string

	iter := dc.client.Scan(ctx, 0, fullPattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), dc.prefix))
	}
	return keys, iter.Err()
}

func (dc *DistributedCache) Close() error {
	return dc.client.Close()
}
