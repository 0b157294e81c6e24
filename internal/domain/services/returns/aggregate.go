package returns

import (
	"github.com/shopspring/decimal"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
)

// Aggregate folds per-asset results into portfolio totals. Only priced results
// contribute to sums; the others are counted. Amounts are never converted
// between currencies, so every total is keyed by currency.
func Aggregate(results []entities.ReturnResult) entities.Summary {
	summary := entities.Summary{
		ByCurrency: make(map[string]entities.CurrencyTotals),
		ByType:     make(map[entities.AssetType]entities.TypeBreakdown),
		AssetCount: len(results),
	}
	for _, assetType := range entities.AllAssetTypes() {
		summary.ByType[assetType] = entities.TypeBreakdown{
			Type:         assetType,
			CurrentValue: make(map[string]decimal.Decimal),
		}
	}

	for _, result := range results {
		// ok is false for records rejected with an unknown type
		breakdown, ok := summary.ByType[result.Type]

		switch result.Status {
		case entities.ValuationStatusPriced:
			summary.PricedCount++
			value := result.CurrentValue.Decimal
			basis := result.CostBasis.Decimal

			totals := summary.ByCurrency[result.Currency]
			totals.Currency = result.Currency
			totals.CurrentValue = totals.CurrentValue.Add(value)
			totals.CostBasis = totals.CostBasis.Add(basis)
			totals.PricedCount++
			summary.ByCurrency[result.Currency] = totals

			if ok {
				breakdown.CurrentValue[result.Currency] = breakdown.CurrentValue[result.Currency].Add(value)
				breakdown.PricedCount++
			}
		case entities.ValuationStatusUnpriced:
			summary.UnpricedCount++
			if ok {
				breakdown.UnpricedCount++
			}
		default:
			summary.InvalidCount++
			if ok {
				breakdown.InvalidCount++
			}
		}

		if ok {
			summary.ByType[result.Type] = breakdown
		}
	}

	for currency, totals := range summary.ByCurrency {
		totals.AbsoluteReturn = totals.CurrentValue.Sub(totals.CostBasis)
		totals.PercentageReturn = PercentageOf(totals.AbsoluteReturn, totals.CostBasis)
		summary.ByCurrency[currency] = totals
	}

	return summary
}
