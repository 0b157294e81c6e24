package valuation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
)

// Valuate returns the current value of asset as of asOf. Market-quoted assets
// need a quote issued for their ticker; savings accrue interest.
func Valuate(asset entities.Asset, quote *entities.Quote, asOf time.Time) (decimal.Decimal, error) {
	switch terms := asset.Terms.(type) {
	case entities.MarketTerms:
		if quote == nil {
			return decimal.Zero, fmt.Errorf("%w: no quote for %s", entities.ErrMissingQuote, terms.Ticker)
		}
		if !quote.Matches(terms.Ticker) {
			return decimal.Zero, fmt.Errorf("%w: quote for %s does not match %s",
				entities.ErrMissingQuote, quote.Ticker, terms.Ticker)
		}
		return quote.Price.Mul(terms.Quantity), nil

	case entities.SavingsTerms:
		return AccruedValue(terms.Principal, terms.AnnualRatePercent, terms.Frequency, terms.InterestStart, asOf)

	default:
		return decimal.Zero, fmt.Errorf("%w: asset %s has no valuation terms", entities.ErrInvalidAssetRecord, asset.ID)
	}
}

// CheckTerms verifies that an asset could be valued without a quote failure,
// i.e. that savings terms are accepted by the accrual calculation.
func CheckTerms(asset entities.Asset) error {
	terms, ok := asset.Terms.(entities.SavingsTerms)
	if !ok {
		return nil
	}
	_, err := AccruedValue(terms.Principal, terms.AnnualRatePercent, terms.Frequency, terms.InterestStart, terms.InterestStart)
	return err
}
