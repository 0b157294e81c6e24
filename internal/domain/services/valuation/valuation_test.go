package valuation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAccruedValue(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		freq      entities.CompoundingFrequency
		start     time.Time
		asOf      time.Time
		want      string
		wantErr   bool
	}{
		{
			name:      "monthly compounding over one calendar year",
			principal: decimal.NewFromInt(1000),
			rate:      decimal.NewFromInt(12),
			freq:      entities.CompoundingMonthly,
			start:     date(2024, 1, 1),
			asOf:      date(2025, 1, 1),
			want:      "1126.83",
		},
		{
			name:      "annual compounding over two years",
			principal: decimal.NewFromInt(1000),
			rate:      decimal.NewFromInt(10),
			freq:      entities.CompoundingAnnually,
			start:     date(2021, 3, 1),
			asOf:      date(2023, 3, 1),
			want:      "1210.00",
		},
		{
			name:      "quarterly compounding over one year",
			principal: decimal.NewFromInt(1000),
			rate:      decimal.NewFromInt(8),
			freq:      entities.CompoundingQuarterly,
			start:     date(2022, 1, 1),
			asOf:      date(2023, 1, 1),
			want:      "1082.43",
		},
		{
			name:      "valuation date before start yields principal",
			principal: decimal.NewFromInt(500),
			rate:      decimal.NewFromInt(5),
			freq:      entities.CompoundingDaily,
			start:     date(2025, 1, 1),
			asOf:      date(2024, 1, 1),
			want:      "500.00",
		},
		{
			name:      "zero rate yields principal",
			principal: decimal.NewFromInt(750),
			rate:      decimal.Zero,
			freq:      entities.CompoundingMonthly,
			start:     date(2020, 1, 1),
			asOf:      date(2024, 1, 1),
			want:      "750.00",
		},
		{
			name:      "negative principal",
			principal: decimal.NewFromInt(-1),
			rate:      decimal.NewFromInt(5),
			freq:      entities.CompoundingMonthly,
			start:     date(2024, 1, 1),
			asOf:      date(2025, 1, 1),
			wantErr:   true,
		},
		{
			name:      "negative rate",
			principal: decimal.NewFromInt(100),
			rate:      decimal.NewFromInt(-5),
			freq:      entities.CompoundingMonthly,
			start:     date(2024, 1, 1),
			asOf:      date(2025, 1, 1),
			wantErr:   true,
		},
		{
			name:      "unknown frequency",
			principal: decimal.NewFromInt(100),
			rate:      decimal.NewFromInt(5),
			freq:      "weekly",
			start:     date(2024, 1, 1),
			asOf:      date(2025, 1, 1),
			wantErr:   true,
		},
		{
			name:      "missing start date",
			principal: decimal.NewFromInt(100),
			rate:      decimal.NewFromInt(5),
			freq:      entities.CompoundingMonthly,
			asOf:      date(2025, 1, 1),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AccruedValue(tt.principal, tt.rate, tt.freq, tt.start, tt.asOf)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, entities.ErrInvalidAccrualInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestAccruedValue_AtStartIsExactlyPrincipal(t *testing.T) {
	principal := decimal.RequireFromString("1234.5678")
	start := time.Date(2024, 2, 29, 15, 30, 0, 0, time.UTC)

	for _, freq := range []entities.CompoundingFrequency{
		entities.CompoundingDaily,
		entities.CompoundingMonthly,
		entities.CompoundingQuarterly,
		entities.CompoundingAnnually,
	} {
		got, err := AccruedValue(principal, decimal.NewFromInt(7), freq, start, start)
		require.NoError(t, err)
		assert.True(t, got.Equal(principal), "frequency %s", freq)
	}
}

func TestAccruedValue_MonotonicInValuationDate(t *testing.T) {
	principal := decimal.NewFromInt(1000)
	rate := decimal.RequireFromString("3.75")
	start := date(2023, 2, 28)

	for _, freq := range []entities.CompoundingFrequency{entities.CompoundingDaily, entities.CompoundingMonthly} {
		prev := principal
		for day := 0; day <= 3*366; day++ {
			got, err := AccruedValue(principal, rate, freq, start, start.AddDate(0, 0, day))
			require.NoError(t, err)
			require.True(t, got.GreaterThanOrEqual(prev), "value decreased on day %d for %s", day, freq)
			prev = got
		}
	}
}

func TestYearFraction(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		asOf  time.Time
		want  float64
	}{
		{"same day", date(2024, 5, 1), date(2024, 5, 1), 0},
		{"reversed", date(2024, 5, 1), date(2024, 4, 1), 0},
		{"leap calendar year", date(2024, 1, 1), date(2025, 1, 1), 1},
		{"common calendar year", date(2023, 1, 1), date(2024, 1, 1), 1},
		{"half of a common year", date(2023, 1, 1), date(2023, 1, 1).AddDate(0, 0, 73), 0.2},
		{"ignores time of day", time.Date(2023, 1, 1, 23, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, YearFraction(tt.start, tt.asOf), 1e-12)
		})
	}
}

func TestValuate(t *testing.T) {
	start := date(2024, 1, 1)
	stock := entities.Asset{
		ID:       uuid.New(),
		Type:     entities.AssetTypeStock,
		Name:     "Apple",
		Currency: "USD",
		Terms: entities.MarketTerms{
			Ticker:    "AAPL",
			CostPrice: decimal.NewFromInt(50),
			Quantity:  decimal.NewFromInt(10),
		},
	}
	savings := entities.Asset{
		ID:       uuid.New(),
		Type:     entities.AssetTypeSavings,
		Name:     "Deposit",
		Currency: "USD",
		Terms: entities.SavingsTerms{
			Principal:         decimal.NewFromInt(1000),
			AnnualRatePercent: decimal.NewFromInt(12),
			Frequency:         entities.CompoundingMonthly,
			InterestStart:     start,
		},
	}

	t.Run("market asset with quote", func(t *testing.T) {
		quote := &entities.Quote{Ticker: "aapl", Price: decimal.NewFromInt(55)}
		got, err := Valuate(stock, quote, start)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(550)))
	})

	t.Run("market asset without quote", func(t *testing.T) {
		_, err := Valuate(stock, nil, start)
		assert.True(t, errors.Is(err, entities.ErrMissingQuote))
	})

	t.Run("market asset with quote for another ticker", func(t *testing.T) {
		_, err := Valuate(stock, &entities.Quote{Ticker: "MSFT", Price: decimal.NewFromInt(1)}, start)
		assert.True(t, errors.Is(err, entities.ErrMissingQuote))
	})

	t.Run("savings ignores quotes", func(t *testing.T) {
		got, err := Valuate(savings, nil, date(2025, 1, 1))
		require.NoError(t, err)
		assert.Equal(t, "1126.83", got.StringFixed(2))
	})

	t.Run("asset without terms", func(t *testing.T) {
		_, err := Valuate(entities.Asset{ID: uuid.New()}, nil, start)
		assert.True(t, errors.Is(err, entities.ErrInvalidAssetRecord))
	})
}

func TestCheckTerms(t *testing.T) {
	bad := entities.Asset{
		Type: entities.AssetTypeSavings,
		Terms: entities.SavingsTerms{
			Principal:         decimal.NewFromInt(100),
			AnnualRatePercent: decimal.NewFromInt(5),
			Frequency:         "fortnightly",
			InterestStart:     date(2024, 1, 1),
		},
	}
	assert.True(t, errors.Is(CheckTerms(bad), entities.ErrInvalidAccrualInput))
	assert.NoError(t, CheckTerms(entities.Asset{Terms: entities.MarketTerms{Ticker: "AAPL"}}))
}
