package goldprice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
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
	serviceName     = "gold_price"
	defaultBaseURL  = "https://data-asg.goldprice.org"
	defaultTimeout  = 10 * time.Second
	defaultCurrency = "USD"

	// TickerPrefix is the symbol gold positions are recorded under
	TickerPrefix = "XAU"
)

// gramsPerTroyOunce converts the quoted ounce price to a per-gram price
var gramsPerTroyOunce = decimal.RequireFromString("31.1035")

type Config struct {
	BaseURL         string
	DefaultCurrency string
	Timeout         time.Duration
	Retry           retry.RetryConfig
	Breaker         circuitbreaker.Config
}

// Client fetches the spot gold price per gram
type Client struct {
	config         Config
	httpClient     *http.Client
	circuitBreaker *gobreaker.CircuitBreaker
	logger         *zap.Logger
}

type ratesResponse struct {
	Items []struct {
		Currency string          `json:"curr"`
		XAUPrice decimal.Decimal `json:"xauPrice"`
	} `json:"items"`
}

func NewClient(config Config, logger *zap.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = defaultCurrency
	}
	config.DefaultCurrency = strings.ToUpper(config.DefaultCurrency)
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.Retry.MaxAttempts == 0 {
		config.Retry = retry.DefaultConfig()
	}
	if config.Breaker.Timeout == 0 {
		config.Breaker = circuitbreaker.DefaultConfig()
	}

	return &Client{
		config:         config,
		httpClient:     &http.Client{Timeout: config.Timeout},
		circuitBreaker: circuitbreaker.New("GoldPriceAPI", config.Breaker, logger),
		logger:         logger,
	}
}

func (c *Client) Breaker() *gobreaker.CircuitBreaker {
	return c.circuitBreaker
}

// ParseTicker extracts the quote currency from XAU, XAU-EUR, XAU/EUR or XAUEUR
func ParseTicker(ticker, fallbackCurrency string) (string, error) {
	normalized := entities.NormalizeTicker(ticker)
	if !strings.HasPrefix(normalized, TickerPrefix) {
		return "", apperrors.NewValidationError(fmt.Sprintf("not a gold ticker: %q", ticker))
	}

	currency := strings.TrimLeft(strings.TrimPrefix(normalized, TickerPrefix), "-/")
	if currency == "" {
		return strings.ToUpper(fallbackCurrency), nil
	}
	if len(currency) != 3 {
		return "", apperrors.NewValidationError(fmt.Sprintf("invalid gold ticker currency: %q", ticker))
	}
	return currency, nil
}

// GetQuote returns the gold price per gram in the currency encoded in ticker
func (c *Client) GetQuote(ctx context.Context, ticker string) (entities.Quote, error) {
	currency, err := ParseTicker(ticker, c.config.DefaultCurrency)
	if err != nil {
		return entities.Quote{}, err
	}

	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		var price decimal.Decimal
		err := retry.WithExponentialBackoff(ctx, c.config.Retry, func() error {
			p, err := c.fetchOuncePrice(ctx, currency)
			if err != nil {
				return err
			}
			price = p
			return nil
		}, apperrors.ShouldRetry)
		return price, err
	})
	if err != nil {
		return entities.Quote{}, fmt.Errorf("gold quote in %s: %w", currency, err)
	}

	perGram := result.(decimal.Decimal).Div(gramsPerTroyOunce).Round(6)
	return entities.Quote{
		Ticker:     entities.NormalizeTicker(ticker),
		Price:      perGram,
		ObservedAt: time.Now().UTC(),
	}, nil
}

func (c *Client) fetchOuncePrice(ctx context.Context, currency string) (decimal.Decimal, error) {
	start := time.Now()
	endpoint := fmt.Sprintf("%s/dbXRates/%s", c.config.BaseURL, currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	tracing.InjectTraceContext(ctx, req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordExternalAPICall(serviceName, "/dbXRates", "error", time.Since(start).Seconds())
		return decimal.Zero, fmt.Errorf("gold price request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.RecordExternalAPICall(serviceName, "/dbXRates", strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.Zero, apperrors.FromHTTPStatus(serviceName, resp.StatusCode, string(body))
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("malformed gold price response: %w", err)
	}
	if len(payload.Items) == 0 {
		return decimal.Zero, fmt.Errorf("invalid gold price response: no items for %s", currency)
	}

	price := payload.Items[0].XAUPrice
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid gold price %s", price)
	}
	c.logger.Debug("Fetched gold price",
		zap.String("currency", currency),
		zap.String("xau_price", price.String()))
	return price, nil
}
