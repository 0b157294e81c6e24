package stockapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
	"github.com/pfinance/pfinance_service/pkg/circuitbreaker"
	apperrors "github.com/pfinance/pfinance_service/pkg/errors"
	"github.com/pfinance/pfinance_service/pkg/metrics"
	"github.com/pfinance/pfinance_service/pkg/retry"
	"github.com/pfinance/pfinance_service/pkg/tracing"
	"github.com/pfinance/pfinance_service/pkg/version"
)

const (
	serviceName    = "stock_api"
	defaultTimeout = 10 * time.Second
	maxBodyLog     = 512
)

// Config represents stock price API configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   retry.RetryConfig
	Breaker circuitbreaker.Config
}

// Client fetches equity and crypto quotes from the stock price service
type Client struct {
	config         Config
	httpClient     *http.Client
	circuitBreaker *gobreaker.CircuitBreaker
	logger         *zap.Logger
}

type quoteResponse struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Timestamp *time.Time      `json:"timestamp"`
}

// NewClient creates a new stock price API client
func NewClient(config Config, logger *zap.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.Retry.MaxAttempts == 0 {
		config.Retry = retry.DefaultConfig()
	}
	if config.Breaker.Timeout == 0 {
		config.Breaker = circuitbreaker.DefaultConfig()
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		circuitBreaker: circuitbreaker.New("StockAPI", config.Breaker, logger),
		logger:         logger,
	}
}

// Breaker exposes the circuit breaker for health reporting
func (c *Client) Breaker() *gobreaker.CircuitBreaker {
	return c.circuitBreaker
}

// GetQuote returns the latest price for ticker
func (c *Client) GetQuote(ctx context.Context, ticker string) (entities.Quote, error) {
	symbol := entities.NormalizeTicker(ticker)
	if symbol == "" {
		return entities.Quote{}, apperrors.NewValidationError("ticker is required")
	}

	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		var quote entities.Quote
		err := retry.WithExponentialBackoff(ctx, c.config.Retry, func() error {
			q, err := c.fetchQuote(ctx, symbol)
			if err != nil {
				return err
			}
			quote = q
			return nil
		}, apperrors.ShouldRetry)
		return quote, err
	})
	if err != nil {
		return entities.Quote{}, fmt.Errorf("stock quote for %s: %w", symbol, err)
	}
	return result.(entities.Quote), nil
}

func (c *Client) fetchQuote(ctx context.Context, symbol string) (entities.Quote, error) {
	start := time.Now()
	endpoint := c.config.BaseURL + "/stock/" + url.PathEscape(symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entities.Quote{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	tracing.InjectTraceContext(ctx, req.Header)

	c.logger.Debug("Sending stock quote request", zap.String("symbol", symbol))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordExternalAPICall(serviceName, "/stock", "error", time.Since(start).Seconds())
		return entities.Quote{}, fmt.Errorf("stock API request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.RecordExternalAPICall(serviceName, "/stock", strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyLog))
		return entities.Quote{}, apperrors.FromHTTPStatus(serviceName, resp.StatusCode, string(body))
	}

	var payload quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return entities.Quote{}, fmt.Errorf("malformed stock API response: %w", err)
	}
	if !payload.Price.IsPositive() {
		return entities.Quote{}, fmt.Errorf("invalid stock price %s for %s", payload.Price, symbol)
	}

	quote := entities.Quote{
		Ticker:     symbol,
		Price:      payload.Price,
		ObservedAt: time.Now().UTC(),
	}
	if payload.Symbol != "" {
		quote.Ticker = entities.NormalizeTicker(payload.Symbol)
	}
	if payload.Timestamp != nil && !payload.Timestamp.IsZero() {
		quote.ObservedAt = payload.Timestamp.UTC()
	}
	return quote, nil
}
