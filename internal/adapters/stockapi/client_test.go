package stockapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pfinance/pfinance_service/pkg/circuitbreaker"
	"github.com/pfinance/pfinance_service/pkg/retry"
	"github.com/pfinance/pfinance_service/pkg/version"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: time.Second,
		Retry: retry.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Millisecond,
			MaxDelay:    5 * time.Millisecond,
			Multiplier:  2,
		},
		Breaker: circuitbreaker.Config{
			MaxRequests:  1,
			Interval:     time.Minute,
			Timeout:      time.Minute,
			MinRequests:  2,
			FailureRatio: 0.5,
		},
	}
}

func TestClient_GetQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/AAPL", r.URL.Path)
		assert.Equal(t, version.UserAgent(), r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"AAPL","price":189.25,"timestamp":"2025-01-02T15:04:05.000Z"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL+"/"), zaptest.NewLogger(t))
	quote, err := client.GetQuote(context.Background(), " aapl")

	require.NoError(t, err)
	assert.Equal(t, "AAPL", quote.Ticker)
	assert.Equal(t, "189.25", quote.Price.String())
	assert.True(t, time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC).Equal(quote.ObservedAt))
}

func TestClient_GetQuote_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCalls int32
	}{
		{name: "not found is not retried", status: http.StatusNotFound, body: `{"error":"Stock not found"}`, wantCalls: 1},
		{name: "malformed body", status: http.StatusOK, body: `{"price":`, wantCalls: 1},
		{name: "zero price", status: http.StatusOK, body: `{"symbol":"AAPL","price":0}`, wantCalls: 1},
		{name: "unavailable is retried", status: http.StatusServiceUnavailable, body: `busy`, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(testConfig(server.URL), zaptest.NewLogger(t))
			_, err := client.GetQuote(context.Background(), "AAPL")

			assert.Error(t, err)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestClient_GetQuote_EmptyTicker(t *testing.T) {
	client := NewClient(testConfig("http://127.0.0.1:0"), zaptest.NewLogger(t))

	_, err := client.GetQuote(context.Background(), "  ")
	assert.Error(t, err)
}

func TestClient_BreakerOpensOnUpstreamFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), zaptest.NewLogger(t))
	for i := 0; i < 2; i++ {
		_, err := client.GetQuote(context.Background(), "AAPL")
		require.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, client.Breaker().State())
	_, err := client.GetQuote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestClient_BreakerIgnoresUnknownTickers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), zaptest.NewLogger(t))
	for i := 0; i < 5; i++ {
		_, _ = client.GetQuote(context.Background(), "NOPE")
	}

	assert.Equal(t, gobreaker.StateClosed, client.Breaker().State())
}
