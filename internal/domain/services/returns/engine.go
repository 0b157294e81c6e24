package returns

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
	"github.com/pfinance/pfinance_service/internal/domain/services/valuation"
)

var hundred = decimal.NewFromInt(100)

// CostBasis is price times quantity for market-quoted assets and the principal for savings
func CostBasis(asset entities.Asset) (decimal.Decimal, bool) {
	switch terms := asset.Terms.(type) {
	case entities.MarketTerms:
		return terms.CostPrice.Mul(terms.Quantity), true
	case entities.SavingsTerms:
		return terms.Principal, true
	}
	return decimal.Zero, false
}

// PercentageOf returns gain as a percentage of basis, or zero when basis is zero
func PercentageOf(gain, basis decimal.Decimal) decimal.Decimal {
	if basis.IsZero() {
		return decimal.Zero
	}
	return gain.Div(basis).Mul(hundred)
}

// ComputeReturn compares currentValue with the asset's cost basis
func ComputeReturn(asset entities.Asset, currentValue decimal.Decimal) entities.ReturnResult {
	basis, _ := CostBasis(asset)
	absolute := currentValue.Sub(basis)

	result := baseResult(asset, entities.ValuationStatusPriced)
	result.CurrentValue = decimal.NewNullDecimal(currentValue)
	result.CostBasis = decimal.NewNullDecimal(basis)
	result.AbsoluteReturn = decimal.NewNullDecimal(absolute)
	result.PercentageReturn = decimal.NewNullDecimal(PercentageOf(absolute, basis))
	return result
}

// Unpriced builds the result for a market-quoted asset with no usable quote
func Unpriced(asset entities.Asset, err error) entities.ReturnResult {
	result := baseResult(asset, entities.ValuationStatusUnpriced)
	if basis, ok := CostBasis(asset); ok {
		result.CostBasis = decimal.NewNullDecimal(basis)
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// Invalid builds the result for a typed asset whose terms could not be valued
func Invalid(asset entities.Asset, err error) entities.ReturnResult {
	result := baseResult(asset, entities.ValuationStatusInvalid)
	if basis, ok := CostBasis(asset); ok {
		result.CostBasis = decimal.NewNullDecimal(basis)
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// InvalidRecord builds the result for a record rejected before valuation.
// The cost basis is reported when the record carries enough data for it.
func InvalidRecord(record entities.AssetRecord, err error) entities.ReturnResult {
	result := entities.ReturnResult{
		AssetID:  record.ID,
		Name:     record.Name,
		Type:     record.Type,
		Currency: record.Currency,
		Status:   entities.ValuationStatusInvalid,
	}
	if record.Ticker != nil {
		result.Ticker = entities.NormalizeTicker(*record.Ticker)
	}
	if err != nil {
		result.Error = err.Error()
	}

	switch {
	case record.Type.IsMarketQuoted() && record.Price.Valid:
		result.CostBasis = decimal.NewNullDecimal(record.Price.Decimal.Mul(record.Amount))
	case record.Type == entities.AssetTypeSavings:
		result.CostBasis = decimal.NewNullDecimal(record.Amount)
	}
	return result
}

// Resolve values a single asset and classifies the outcome.
// It never fails: valuation errors become unpriced or invalid results.
func Resolve(asset entities.Asset, quote *entities.Quote, asOf time.Time) entities.ReturnResult {
	value, err := valuation.Valuate(asset, quote, asOf)
	switch {
	case err == nil:
		return ComputeReturn(asset, value)
	case errors.Is(err, entities.ErrMissingQuote):
		return Unpriced(asset, err)
	default:
		return Invalid(asset, err)
	}
}

func baseResult(asset entities.Asset, status entities.ValuationStatus) entities.ReturnResult {
	return entities.ReturnResult{
		AssetID:  asset.ID,
		Name:     asset.Name,
		Type:     asset.Type,
		Ticker:   asset.Ticker(),
		Currency: asset.Currency,
		Status:   status,
	}
}
