package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ValuationStatus string

const (
	ValuationStatusPriced   ValuationStatus = "priced"
	ValuationStatusUnpriced ValuationStatus = "unpriced"
	ValuationStatusInvalid  ValuationStatus = "invalid"
)

// ReturnResult is the per-asset outcome of a valuation pass.
// Value fields are null unless Status is priced.
type ReturnResult struct {
	AssetID          uuid.UUID           `json:"asset_id"`
	Name             string              `json:"name"`
	Type             AssetType           `json:"type"`
	Ticker           string              `json:"ticker,omitempty"`
	Currency         string              `json:"currency"`
	Status           ValuationStatus     `json:"status"`
	CurrentValue     decimal.NullDecimal `json:"current_value"`
	CostBasis        decimal.NullDecimal `json:"cost_basis"`
	AbsoluteReturn   decimal.NullDecimal `json:"absolute_return"`
	PercentageReturn decimal.NullDecimal `json:"percentage_return"`
	Error            string              `json:"error,omitempty"`
}

// CurrencyTotals sums priced results sharing one currency
type CurrencyTotals struct {
	Currency         string          `json:"currency"`
	CurrentValue     decimal.Decimal `json:"current_value"`
	CostBasis        decimal.Decimal `json:"cost_basis"`
	AbsoluteReturn   decimal.Decimal `json:"absolute_return"`
	PercentageReturn decimal.Decimal `json:"percentage_return"`
	PricedCount      int             `json:"priced_count"`
}

// TypeBreakdown holds current value per currency for one asset type
type TypeBreakdown struct {
	Type          AssetType                  `json:"type"`
	CurrentValue  map[string]decimal.Decimal `json:"current_value"`
	PricedCount   int                        `json:"priced_count"`
	UnpricedCount int                        `json:"unpriced_count"`
	InvalidCount  int                        `json:"invalid_count"`
}

type Summary struct {
	ByCurrency    map[string]CurrencyTotals    `json:"by_currency"`
	ByType        map[AssetType]TypeBreakdown `json:"by_type"`
	AssetCount    int                          `json:"asset_count"`
	PricedCount   int                          `json:"priced_count"`
	UnpricedCount int                          `json:"unpriced_count"`
	InvalidCount  int                          `json:"invalid_count"`
}

// PortfolioReport is the output of one valuation pass, results in input order
type PortfolioReport struct {
	AsOf    time.Time      `json:"as_of"`
	Results []ReturnResult `json:"results"`
	Summary Summary        `json:"summary"`
}

// ReturnSnapshot is one day's recorded return for a stored asset
type ReturnSnapshot struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	AssetID          uuid.UUID       `json:"asset_id" db:"asset_id"`
	Date             time.Time       `json:"date" db:"date"`
	CurrentValue     decimal.Decimal `json:"current_value" db:"current_value"`
	AbsoluteReturn   decimal.Decimal `json:"absolute_return" db:"absolute_return"`
	PercentageReturn decimal.Decimal `json:"percentage_return" db:"percentage_return"`
	Currency         string          `json:"currency" db:"currency"`
	RecordedAt       time.Time       `json:"recorded_at" db:"recorded_at"`
}

// MonthlyReturn compares the first and last recorded return of an asset within a month
type MonthlyReturn struct {
	AssetID     uuid.UUID       `json:"asset_id" db:"asset_id"`
	AssetName   string          `json:"asset_name" db:"asset_name"`
	Year        int             `json:"year" db:"year"`
	Month       int             `json:"month" db:"month"`
	Currency    string          `json:"currency" db:"currency"`
	FirstReturn decimal.Decimal `json:"first_return" db:"first_return"`
	LastReturn  decimal.Decimal `json:"last_return" db:"last_return"`
}

// Change is the movement in absolute return over the month
func (m MonthlyReturn) Change() decimal.Decimal {
	return m.LastReturn.Sub(m.FirstReturn)
}
