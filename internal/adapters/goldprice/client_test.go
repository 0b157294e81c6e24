package goldprice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pfinance/pfinance_service/pkg/retry"
)

func TestParseTicker(t *testing.T) {
	tests := []struct {
		ticker  string
		want    string
		wantErr bool
	}{
		{ticker: "XAU", want: "USD"},
		{ticker: "xau-eur", want: "EUR"},
		{ticker: "XAU/GBP", want: "GBP"},
		{ticker: "XAUCHF", want: "CHF"},
		{ticker: "XAU-EURO", wantErr: true},
		{ticker: "AAPL", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ticker, func(t *testing.T) {
			got, err := ParseTicker(tt.ticker, "usd")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_GetQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dbXRates/EUR", r.URL.Path)
		_, _ = w.Write([]byte(`{"ts":1,"items":[{"curr":"EUR","xauPrice":3110.35,"xagPrice":30.1}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, zaptest.NewLogger(t))
	quote, err := client.GetQuote(context.Background(), "xau-eur")

	require.NoError(t, err)
	assert.Equal(t, "XAU-EUR", quote.Ticker)
	assert.Equal(t, "100", quote.Price.String())
}

func TestClient_GetQuote_EmptyItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL: server.URL,
		Retry:   retry.RetryConfig{MaxAttempts: 1, BaseDelay: time.Millisecond},
	}, zaptest.NewLogger(t))
	_, err := client.GetQuote(context.Background(), "XAU")

	assert.ErrorContains(t, err, "no items")
}
