package quotes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
	"github.com/pfinance/pfinance_service/pkg/metrics"
)

const (
	outcomeOK         = "ok"
	outcomeFailed     = "failed"
	outcomeTimeout    = "timeout"
	outcomeMismatched = "mismatched"
)

type FetcherConfig struct {
	MaxConcurrency int
	LookupTimeout  time.Duration
}

func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		MaxConcurrency: 8,
		LookupTimeout:  5 * time.Second,
	}
}

// Fetcher resolves quotes for many tickers concurrently. A failed, slow or
// mismatched lookup only drops that ticker from the result.
type Fetcher struct {
	provider Provider
	config   FetcherConfig
	logger   *zap.Logger
}

func NewFetcher(provider Provider, config FetcherConfig, logger *zap.Logger) *Fetcher {
	defaults := DefaultFetcherConfig()
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = defaults.MaxConcurrency
	}
	if config.LookupTimeout <= 0 {
		config.LookupTimeout = defaults.LookupTimeout
	}
	return &Fetcher{provider: provider, config: config, logger: logger}
}

// FetchAll returns the usable quotes keyed by normalized ticker. Each distinct
// ticker is looked up at most once.
func (f *Fetcher) FetchAll(ctx context.Context, tickers []string) map[string]entities.Quote {
	unique := make([]string, 0, len(tickers))
	seen := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		normalized := entities.NormalizeTicker(t)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		unique = append(unique, normalized)
	}

	metrics.RecordQuoteBatch(len(unique))
	found := make(map[string]entities.Quote, len(unique))
	if len(unique) == 0 {
		return found
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(f.config.MaxConcurrency)

	for _, ticker := range unique {
		ticker := ticker
		g.Go(func() error {
			quote, ok := f.lookup(ctx, ticker)
			if ok {
				mu.Lock()
				found[ticker] = quote
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(found) < len(unique) {
		f.logger.Warn("Some quotes could not be resolved",
			zap.Int("requested", len(unique)),
			zap.Int("resolved", len(found)))
	}
	return found
}

type lookupResult struct {
	quote entities.Quote
	err   error
}

func (f *Fetcher) lookup(ctx context.Context, ticker string) (entities.Quote, bool) {
	start := time.Now()
	lctx, cancel := context.WithTimeout(ctx, f.config.LookupTimeout)
	defer cancel()

	// buffered so a provider that ignores cancellation never blocks on send
	done := make(chan lookupResult, 1)
	go func() {
		q, err := f.provider.GetQuote(lctx, ticker)
		done <- lookupResult{quote: q, err: err}
	}()

	var res lookupResult
	select {
	case res = <-done:
	case <-lctx.Done():
		res = lookupResult{err: lctx.Err()}
	}
	elapsed := time.Since(start).Seconds()

	switch {
	case res.err != nil:
		outcome := outcomeFailed
		if errors.Is(res.err, context.DeadlineExceeded) {
			outcome = outcomeTimeout
		}
		metrics.RecordQuoteLookup(outcome, elapsed)
		f.logger.Warn("Quote lookup failed",
			zap.String("ticker", ticker),
			zap.String("outcome", outcome),
			zap.Error(res.err))
		return entities.Quote{}, false
	case !res.quote.Matches(ticker):
		metrics.RecordQuoteLookup(outcomeMismatched, elapsed)
		f.logger.Warn("Discarding quote issued for another ticker",
			zap.String("ticker", ticker),
			zap.String("quote_ticker", res.quote.Ticker))
		return entities.Quote{}, false
	case res.quote.Price.IsNegative():
		metrics.RecordQuoteLookup(outcomeFailed, elapsed)
		f.logger.Warn("Discarding quote with negative price",
			zap.String("ticker", ticker),
			zap.Error(fmt.Errorf("price %s", res.quote.Price)))
		return entities.Quote{}, false
	}

	metrics.RecordQuoteLookup(outcomeOK, elapsed)
	res.quote.Ticker = ticker
	return res.quote, true
}
