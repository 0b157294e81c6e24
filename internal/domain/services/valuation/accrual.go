package valuation

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
)

var hundred = decimal.NewFromInt(100)

// AccruedValue returns principal compounded at annualRatePercent from start to asOf:
//
//	value = principal * (1 + r/n)^(n*t)
//
// r is the rate as a fraction, n the compounding periods per year and t the
// elapsed years. A valuation date before start yields the principal.
func AccruedValue(
	principal, annualRatePercent decimal.Decimal,
	frequency entities.CompoundingFrequency,
	start, asOf time.Time,
) (decimal.Decimal, error) {
	if principal.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: principal %s is negative", entities.ErrInvalidAccrualInput, principal)
	}
	if annualRatePercent.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: rate %s is negative", entities.ErrInvalidAccrualInput, annualRatePercent)
	}
	n, ok := frequency.PeriodsPerYear()
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown compounding frequency %q", entities.ErrInvalidAccrualInput, frequency)
	}
	if start.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: interest start is not set", entities.ErrInvalidAccrualInput)
	}

	t := YearFraction(start, asOf)
	if t == 0 || annualRatePercent.IsZero() {
		return principal, nil
	}

	r := annualRatePercent.Div(hundred).InexactFloat64()
	periods := float64(n)
	factor := math.Pow(1+r/periods, periods*t)
	if math.IsInf(factor, 0) || math.IsNaN(factor) {
		return decimal.Zero, fmt.Errorf("%w: growth factor overflows", entities.ErrInvalidAccrualInput)
	}

	return principal.Mul(decimal.NewFromFloat(factor)), nil
}

// YearFraction returns the elapsed years between two calendar dates (UTC).
// Whole anniversary years are counted first; the remainder is divided by the
// length of the anniversary year it falls into, so leap days never stretch a
// calendar year past 1. Non-positive spans return 0.
func YearFraction(start, asOf time.Time) float64 {
	s, e := civilDate(start), civilDate(asOf)
	if !e.After(s) {
		return 0
	}

	years := e.Year() - s.Year()
	anniversary := s.AddDate(years, 0, 0)
	if anniversary.After(e) {
		years--
		anniversary = s.AddDate(years, 0, 0)
	}
	next := s.AddDate(years+1, 0, 0)

	return float64(years) + e.Sub(anniversary).Hours()/next.Sub(anniversary).Hours()
}

func civilDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
