package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
	"github.com/pfinance/pfinance_service/internal/domain/services/quotes"
	"github.com/pfinance/pfinance_service/pkg/metrics"
)

const quoteKeyPrefix = "quote:"

// QuoteStore is the key-value store backing the quote cache
type QuoteStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CachingProvider serves quotes younger than ttl from the store and otherwise
// asks the wrapped provider. Store failures never fail a lookup.
type CachingProvider struct {
	next   quotes.Provider
	store  QuoteStore
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachingProvider(next quotes.Provider, store QuoteStore, ttl time.Duration, logger *zap.Logger) *CachingProvider {
	return &CachingProvider{next: next, store: store, ttl: ttl, logger: logger}
}

func quoteKey(ticker string) string {
	return quoteKeyPrefix + ticker
}

func (p *CachingProvider) GetQuote(ctx context.Context, ticker string) (entities.Quote, error) {
	if p.ttl <= 0 || p.store == nil {
		return p.next.GetQuote(ctx, ticker)
	}

	normalized := entities.NormalizeTicker(ticker)
	key := quoteKey(normalized)

	if quote, ok := p.lookup(ctx, key); ok {
		return quote, nil
	}

	quote, err := p.next.GetQuote(ctx, normalized)
	if err != nil {
		return entities.Quote{}, err
	}

	payload, err := json.Marshal(quote)
	if err == nil {
		err = p.store.Set(ctx, key, string(payload), p.ttl)
	}
	if err != nil {
		metrics.RecordQuoteCache("error")
		p.logger.Warn("Failed to cache quote", zap.String("ticker", normalized), zap.Error(err))
	}
	return quote, nil
}

func (p *CachingProvider) lookup(ctx context.Context, key string) (entities.Quote, bool) {
	raw, err := p.store.Get(ctx, key)
	if err != nil {
		metrics.RecordQuoteCache("error")
		p.logger.Warn("Quote cache read failed", zap.String("key", key), zap.Error(err))
		return entities.Quote{}, false
	}
	if raw == "" {
		metrics.RecordQuoteCache("miss")
		return entities.Quote{}, false
	}

	var quote entities.Quote
	if err := json.Unmarshal([]byte(raw), &quote); err != nil {
		metrics.RecordQuoteCache("error")
		p.logger.Warn("Discarding undecodable cached quote", zap.String("key", key), zap.Error(err))
		return entities.Quote{}, false
	}
	metrics.RecordQuoteCache("hit")
	return quote, true
}
