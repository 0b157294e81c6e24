package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a market price observation for one ticker
type Quote struct {
	Ticker     string          `json:"ticker"`
	Price      decimal.Decimal `json:"price"`
	ObservedAt time.Time       `json:"observed_at"`
}

// NormalizeTicker returns the canonical form used to match quotes to assets
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Matches reports whether the quote was issued for ticker
func (q Quote) Matches(ticker string) bool {
	return NormalizeTicker(q.Ticker) == NormalizeTicker(ticker)
}
