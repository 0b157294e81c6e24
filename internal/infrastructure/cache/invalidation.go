package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
)

type CacheInvalidator struct {
	client RedisClient
	logger *zap.Logger
}

func NewCacheInvalidator(client RedisClient, logger *zap.Logger) *CacheInvalidator {
	return &CacheInvalidator{
		client: client,
		logger: logger,
	}
}

// InvalidatePattern deletes every key matching pattern and returns how many were removed
func (ci *CacheInvalidator) InvalidatePattern(ctx context.Context, pattern string) (int, error) {
	keys, err := ci.client.Keys(ctx, pattern)
	if err != nil {
		return 0, fmt.Errorf("failed to get keys for pattern %s: %w", pattern, err)
	}

	removed := 0
	for _, key := range keys {
		if err := ci.client.Del(ctx, key); err != nil {
			ci.logger.Error("Failed to delete cache key", zap.String("key", key), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

// InvalidateQuote drops the cached quote for ticker
func (ci *CacheInvalidator) InvalidateQuote(ctx context.Context, ticker string) error {
	return ci.client.Del(ctx, quoteKey(entities.NormalizeTicker(ticker)))
}

// InvalidateQuotes drops every cached quote
func (ci *CacheInvalidator) InvalidateQuotes(ctx context.Context) (int, error) {
	return ci.InvalidatePattern(ctx, quoteKeyPrefix+"*")
}
