package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func freqPtr(f CompoundingFrequency) *CompoundingFrequency { return &f }

func TestAssetRecord_ToAsset(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		record   AssetRecord
		wantErr  bool
		validate func(t *testing.T, asset Asset)
	}{
		{
			name: "stock with ticker and price",
			record: AssetRecord{
				Type:     AssetTypeStock,
				Name:     "Apple",
				Ticker:   strPtr(" aapl "),
				Price:    decimal.NewNullDecimal(decimal.NewFromInt(50)),
				Amount:   decimal.NewFromInt(10),
				Currency: "usd",
			},
			validate: func(t *testing.T, asset Asset) {
				terms, ok := asset.Terms.(MarketTerms)
				require.True(t, ok)
				assert.Equal(t, "AAPL", terms.Ticker)
				assert.Equal(t, "USD", asset.Currency)
				assert.True(t, terms.Quantity.Equal(decimal.NewFromInt(10)))
				assert.Equal(t, "AAPL", asset.Ticker())
			},
		},
		{
			name: "bond keeps interest start but is market quoted",
			record: AssetRecord{
				Type:          AssetTypeBond,
				Name:          "Treasury",
				Ticker:        strPtr("US10Y"),
				Price:         decimal.NewNullDecimal(decimal.NewFromInt(98)),
				Amount:        decimal.NewFromInt(5),
				Currency:      "USD",
				InterestStart: &start,
			},
			validate: func(t *testing.T, asset Asset) {
				terms, ok := asset.Terms.(MarketTerms)
				require.True(t, ok)
				require.NotNil(t, terms.InterestStart)
				assert.True(t, terms.InterestStart.Equal(start))
			},
		},
		{
			name: "savings with accrual terms",
			record: AssetRecord{
				Type:                 AssetTypeSavings,
				Name:                 "Deposit",
				Amount:               decimal.NewFromInt(1000),
				Currency:             "EUR",
				InterestRate:         decimal.NewNullDecimal(decimal.NewFromInt(12)),
				CompoundingFrequency: freqPtr("Monthly"),
				InterestStart:        &start,
			},
			validate: func(t *testing.T, asset Asset) {
				terms, ok := asset.Terms.(SavingsTerms)
				require.True(t, ok)
				assert.Equal(t, CompoundingMonthly, terms.Frequency)
				assert.Equal(t, "", asset.Ticker())
			},
		},
		{
			name:    "unknown type",
			record:  AssetRecord{Type: "Art", Name: "Painting", Currency: "USD"},
			wantErr: true,
		},
		{
			name:    "blank name",
			record:  AssetRecord{Type: AssetTypeStock, Name: "  ", Currency: "USD"},
			wantErr: true,
		},
		{
			name: "unknown currency",
			record: AssetRecord{
				Type:     AssetTypeStock,
				Name:     "Apple",
				Ticker:   strPtr("AAPL"),
				Price:    decimal.NewNullDecimal(decimal.NewFromInt(1)),
				Currency: "XYZ1",
			},
			wantErr: true,
		},
		{
			name: "negative amount",
			record: AssetRecord{
				Type:     AssetTypeCrypto,
				Name:     "Bitcoin",
				Ticker:   strPtr("BTC-USD"),
				Price:    decimal.NewNullDecimal(decimal.NewFromInt(1)),
				Amount:   decimal.NewFromInt(-1),
				Currency: "USD",
			},
			wantErr: true,
		},
		{
			name: "market asset without ticker",
			record: AssetRecord{
				Type:     AssetTypeGold,
				Name:     "Bar",
				Price:    decimal.NewNullDecimal(decimal.NewFromInt(60)),
				Amount:   decimal.NewFromInt(10),
				Currency: "USD",
			},
			wantErr: true,
		},
		{
			name: "market asset without price",
			record: AssetRecord{
				Type:     AssetTypeStock,
				Name:     "Apple",
				Ticker:   strPtr("AAPL"),
				Amount:   decimal.NewFromInt(10),
				Currency: "USD",
			},
			wantErr: true,
		},
		{
			name: "savings without interest start",
			record: AssetRecord{
				Type:                 AssetTypeSavings,
				Name:                 "Deposit",
				Amount:               decimal.NewFromInt(1000),
				Currency:             "USD",
				InterestRate:         decimal.NewNullDecimal(decimal.NewFromInt(3)),
				CompoundingFrequency: freqPtr(CompoundingDaily),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset, err := tt.record.ToAsset()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidAssetRecord))
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, asset)
			}
		})
	}
}

func TestAsset_ToRecordRoundTrip(t *testing.T) {
	start := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	record := AssetRecord{
		Type:                 AssetTypeSavings,
		Name:                 "Deposit",
		Amount:               decimal.NewFromInt(2500),
		Currency:             "GBP",
		InterestRate:         decimal.NewNullDecimal(decimal.RequireFromString("4.5")),
		CompoundingFrequency: freqPtr(CompoundingQuarterly),
		InterestStart:        &start,
	}

	asset, err := record.ToAsset()
	require.NoError(t, err)

	back := asset.ToRecord()
	assert.Nil(t, back.Ticker)
	assert.False(t, back.Price.Valid)
	assert.True(t, back.InterestRate.Decimal.Equal(decimal.RequireFromString("4.5")))
	require.NotNil(t, back.CompoundingFrequency)
	assert.Equal(t, CompoundingQuarterly, *back.CompoundingFrequency)
}

func TestQuote_Matches(t *testing.T) {
	q := Quote{Ticker: "aapl"}
	assert.True(t, q.Matches(" AAPL"))
	assert.False(t, q.Matches("MSFT"))
}
