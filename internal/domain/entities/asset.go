package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AssetType string

const (
	AssetTypeStock   AssetType = "Stock"
	AssetTypeGold    AssetType = "Gold"
	AssetTypeBond    AssetType = "Bond"
	AssetTypeSavings AssetType = "Savings"
	AssetTypeCrypto  AssetType = "Crypto"
)

// AllAssetTypes returns every supported asset type in display order
func AllAssetTypes() []AssetType {
	return []AssetType{
		AssetTypeStock,
		AssetTypeGold,
		AssetTypeBond,
		AssetTypeSavings,
		AssetTypeCrypto,
	}
}

// IsValid reports whether t is one of the supported asset types
func (t AssetType) IsValid() bool {
	switch t {
	case AssetTypeStock, AssetTypeGold, AssetTypeBond, AssetTypeSavings, AssetTypeCrypto:
		return true
	}
	return false
}

// IsMarketQuoted reports whether assets of this type are valued from a live quote.
// Bonds are quoted like equities.
func (t AssetType) IsMarketQuoted() bool {
	switch t {
	case AssetTypeStock, AssetTypeGold, AssetTypeBond, AssetTypeCrypto:
		return true
	}
	return false
}

type CompoundingFrequency string

const (
	CompoundingDaily     CompoundingFrequency = "daily"
	CompoundingMonthly   CompoundingFrequency = "monthly"
	CompoundingQuarterly CompoundingFrequency = "quarterly"
	CompoundingAnnually  CompoundingFrequency = "annually"
)

// PeriodsPerYear returns the number of compounding periods in a year
func (f CompoundingFrequency) PeriodsPerYear() (int, bool) {
	switch f {
	case CompoundingDaily:
		return 365, true
	case CompoundingMonthly:
		return 12, true
	case CompoundingQuarterly:
		return 4, true
	case CompoundingAnnually:
		return 1, true
	}
	return 0, false
}

// AssetRecord is the flat shape an asset has on the wire and in storage.
// Optional fields are only meaningful for some asset types; ToAsset sorts that out.
type AssetRecord struct {
	ID                   uuid.UUID             `json:"id" db:"id"`
	Type                 AssetType             `json:"type" db:"type"`
	Name                 string                `json:"name" db:"name"`
	Ticker               *string               `json:"ticker,omitempty" db:"ticker"`
	Price                decimal.NullDecimal   `json:"price" db:"price"`
	Amount               decimal.Decimal       `json:"amount" db:"amount"`
	Currency             string                `json:"currency" db:"currency"`
	InterestRate         decimal.NullDecimal   `json:"interest_rate" db:"interest_rate"`
	CompoundingFrequency *CompoundingFrequency `json:"compounding_frequency,omitempty" db:"compounding_frequency"`
	InterestStart        *time.Time            `json:"interest_start,omitempty" db:"interest_start"`
	CreatedAt            time.Time             `json:"created_at" db:"created_at"`
}

// Terms is the valuation-specific part of an asset. It is implemented by
// MarketTerms and SavingsTerms only.
type Terms interface {
	isTerms()
}

// MarketTerms describes a holding valued as quote price times quantity
type MarketTerms struct {
	Ticker    string
	CostPrice decimal.Decimal
	Quantity  decimal.Decimal
	// InterestStart is carried for bonds but never used in valuation.
	InterestStart *time.Time
}

// SavingsTerms describes an interest-bearing balance valued by compounding
type SavingsTerms struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	Frequency         CompoundingFrequency
	InterestStart     time.Time
}

func (MarketTerms) isTerms()  {}
func (SavingsTerms) isTerms() {}

// Asset is a validated holding with exactly one set of valuation terms
type Asset struct {
	ID        uuid.UUID
	Type      AssetType
	Name      string
	Currency  string
	CreatedAt time.Time
	Terms     Terms
}

// Ticker returns the normalised ticker for market-quoted assets and "" otherwise
func (a Asset) Ticker() string {
	if m, ok := a.Terms.(MarketTerms); ok {
		return NormalizeTicker(m.Ticker)
	}
	return ""
}

// ToAsset validates the record and converts it into its typed form.
// Every failure wraps ErrInvalidAssetRecord.
func (r AssetRecord) ToAsset() (Asset, error) {
	if !r.Type.IsValid() {
		return Asset{}, invalidRecord("unknown asset type %q", r.Type)
	}

	name := strings.TrimSpace(r.Name)
	if name == "" {
		return Asset{}, invalidRecord("name is required")
	}

	currency := strings.ToUpper(strings.TrimSpace(r.Currency))
	if money.GetCurrency(currency) == nil {
		return Asset{}, invalidRecord("unknown currency %q", r.Currency)
	}

	if r.Amount.IsNegative() {
		return Asset{}, invalidRecord("amount must not be negative")
	}

	asset := Asset{
		ID:        r.ID,
		Type:      r.Type,
		Name:      name,
		Currency:  currency,
		CreatedAt: r.CreatedAt,
	}

	if r.Type.IsMarketQuoted() {
		if r.Ticker == nil || NormalizeTicker(*r.Ticker) == "" {
			return Asset{}, invalidRecord("ticker is required for %s", r.Type)
		}
		if !r.Price.Valid {
			return Asset{}, invalidRecord("price is required for %s", r.Type)
		}
		if r.Price.Decimal.IsNegative() {
			return Asset{}, invalidRecord("price must not be negative")
		}
		asset.Terms = MarketTerms{
			Ticker:        NormalizeTicker(*r.Ticker),
			CostPrice:     r.Price.Decimal,
			Quantity:      r.Amount,
			InterestStart: r.InterestStart,
		}
		return asset, nil
	}

	// Numeric ranges of savings terms are checked by the accrual calculation.
	if !r.InterestRate.Valid {
		return Asset{}, invalidRecord("interest rate is required for %s", r.Type)
	}
	if r.CompoundingFrequency == nil || *r.CompoundingFrequency == "" {
		return Asset{}, invalidRecord("compounding frequency is required for %s", r.Type)
	}
	if r.InterestStart == nil {
		return Asset{}, invalidRecord("interest start is required for %s", r.Type)
	}
	asset.Terms = SavingsTerms{
		Principal:         r.Amount,
		AnnualRatePercent: r.InterestRate.Decimal,
		Frequency:         CompoundingFrequency(strings.ToLower(string(*r.CompoundingFrequency))),
		InterestStart:     *r.InterestStart,
	}
	return asset, nil
}

// ToRecord flattens an asset back into its storage shape
func (a Asset) ToRecord() AssetRecord {
	record := AssetRecord{
		ID:        a.ID,
		Type:      a.Type,
		Name:      a.Name,
		Currency:  a.Currency,
		CreatedAt: a.CreatedAt,
	}

	switch terms := a.Terms.(type) {
	case MarketTerms:
		ticker := terms.Ticker
		record.Ticker = &ticker
		record.Price = decimal.NewNullDecimal(terms.CostPrice)
		record.Amount = terms.Quantity
		record.InterestStart = terms.InterestStart
	case SavingsTerms:
		freq := terms.Frequency
		start := terms.InterestStart
		record.Amount = terms.Principal
		record.InterestRate = decimal.NewNullDecimal(terms.AnnualRatePercent)
		record.CompoundingFrequency = &freq
		record.InterestStart = &start
	}

	return record
}

func invalidRecord(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidAssetRecord, fmt.Sprintf(format, args...))
}
