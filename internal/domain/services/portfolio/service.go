package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
	"github.com/pfinance/pfinance_service/internal/domain/repositories"
	"github.com/pfinance/pfinance_service/internal/domain/services/returns"
	"github.com/pfinance/pfinance_service/internal/domain/services/valuation"
	"github.com/pfinance/pfinance_service/pkg/logger"
	"github.com/pfinance/pfinance_service/pkg/metrics"
)

// QuoteFetcher resolves quotes for a batch of tickers, omitting any it could not price
type QuoteFetcher interface {
	FetchAll(ctx context.Context, tickers []string) map[string]entities.Quote
}

// Service ties stored assets, live quotes and the returns engine together
type Service struct {
	assets  repositories.AssetRepository
	history repositories.ReturnHistoryRepository
	quotes  QuoteFetcher
	logger  *logger.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// NewService creates a new portfolio service
func NewService(
	assets repositories.AssetRepository,
	history repositories.ReturnHistoryRepository,
	quotes QuoteFetcher,
	logger *logger.Logger,
) *Service {
	return &Service{
		assets:  assets,
		history: history,
		quotes:  quotes,
		logger:  logger,
		tracer:  otel.Tracer("portfolio-service"),
		now:     time.Now,
	}
}

// CreateAsset validates record, assigns its identity and persists the normalized form
func (s *Service) CreateAsset(ctx context.Context, record entities.AssetRecord) (*entities.AssetRecord, error) {
	record.ID = uuid.New()
	record.CreatedAt = s.now().UTC()

	asset, err := record.ToAsset()
	if err != nil {
		return nil, err
	}
	if err := valuation.CheckTerms(asset); err != nil {
		return nil, err
	}

	stored := asset.ToRecord()
	if err := s.assets.Create(ctx, &stored); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	s.logger.CtxInfo(ctx, "Asset created",
		"asset_id", stored.ID.String(),
		"type", string(stored.Type),
		"currency", stored.Currency)
	return &stored, nil
}

func (s *Service) GetAsset(ctx context.Context, id uuid.UUID) (*entities.AssetRecord, error) {
	return s.assets.GetByID(ctx, id)
}

// ListAssets returns every stored asset, or only those of assetType when it is set
func (s *Service) ListAssets(ctx context.Context, assetType entities.AssetType) ([]*entities.AssetRecord, error) {
	if assetType == "" {
		return s.assets.List(ctx)
	}
	if !assetType.IsValid() {
		return nil, fmt.Errorf("%w: unknown asset type %q", entities.ErrInvalidAssetRecord, assetType)
	}
	return s.assets.ListByType(ctx, assetType)
}

func (s *Service) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	if err := s.assets.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.CtxInfo(ctx, "Asset deleted", "asset_id", id.String())
	return nil
}

// Input is one asset to value. Err is set when the asset could not be decoded;
// such an input is reported invalid with whatever Record carries.
type Input struct {
	Record entities.AssetRecord
	Err    error
}

// Evaluate values every record as of asOf and aggregates the outcome
func (s *Service) Evaluate(ctx context.Context, records []entities.AssetRecord, asOf time.Time) *entities.PortfolioReport {
	inputs := make([]Input, len(records))
	for i, record := range records {
		inputs[i] = Input{Record: record}
	}
	return s.EvaluateInputs(ctx, inputs, asOf)
}

// EvaluateInputs is Evaluate for inputs that may have failed to decode. Results
// keep the input order. A bad input or a missing quote only affects its own
// result; the report itself is always produced.
func (s *Service) EvaluateInputs(ctx context.Context, inputs []Input, asOf time.Time) *entities.PortfolioReport {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "portfolio.evaluate", trace.WithAttributes(
		attribute.Int("asset_count", len(inputs)),
		attribute.String("as_of", asOf.Format("2006-01-02")),
	))
	defer span.End()

	assets := make([]*entities.Asset, len(inputs))
	rejected := make([]error, len(inputs))
	var tickers []string
	for i, input := range inputs {
		if input.Err != nil {
			rejected[i] = input.Err
			continue
		}
		asset, err := input.Record.ToAsset()
		if err != nil {
			rejected[i] = err
			continue
		}
		assets[i] = &asset
		if ticker := asset.Ticker(); ticker != "" {
			tickers = append(tickers, ticker)
		}
	}

	found := map[string]entities.Quote{}
	if len(tickers) > 0 {
		found = s.quotes.FetchAll(ctx, tickers)
	}

	results := make([]entities.ReturnResult, len(inputs))
	for i, input := range inputs {
		if assets[i] == nil {
			results[i] = returns.InvalidRecord(input.Record, rejected[i])
		} else {
			var quote *entities.Quote
			if q, ok := found[assets[i].Ticker()]; ok {
				quote = &q
			}
			results[i] = returns.Resolve(*assets[i], quote, asOf)
		}

		result := results[i]
		metrics.RecordValuation(string(result.Type), string(result.Status))
		if result.Status != entities.ValuationStatusPriced {
			s.logger.CtxWarn(ctx, "Asset could not be valued",
				"asset_id", result.AssetID.String(),
				"ticker", result.Ticker,
				"status", string(result.Status),
				"error", result.Error)
		}
	}

	summary := returns.Aggregate(results)
	span.SetAttributes(
		attribute.Int("priced_count", summary.PricedCount),
		attribute.Int("unpriced_count", summary.UnpricedCount),
		attribute.Int("invalid_count", summary.InvalidCount),
	)
	metrics.RecordValuationPass(time.Since(start).Seconds())

	return &entities.PortfolioReport{
		AsOf:    asOf,
		Results: results,
		Summary: summary,
	}
}

// EvaluateStored runs Evaluate over every stored asset
func (s *Service) EvaluateStored(ctx context.Context, asOf time.Time) (*entities.PortfolioReport, error) {
	stored, err := s.assets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	records := make([]entities.AssetRecord, 0, len(stored))
	for _, record := range stored {
		records = append(records, *record)
	}
	return s.Evaluate(ctx, records, asOf), nil
}

// SnapshotReturns evaluates stored assets and records the priced results for
// the UTC calendar day of asOf. Recording the same day twice replaces the earlier row.
func (s *Service) SnapshotReturns(ctx context.Context, asOf time.Time) (*entities.PortfolioReport, error) {
	asOf = asOf.UTC()
	report, err := s.EvaluateStored(ctx, asOf)
	if err != nil {
		return nil, err
	}

	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	recordedAt := s.now().UTC()
	snapshots := make([]*entities.ReturnSnapshot, 0, len(report.Results))
	for _, result := range report.Results {
		if result.Status != entities.ValuationStatusPriced {
			continue
		}
		snapshots = append(snapshots, &entities.ReturnSnapshot{
			ID:               uuid.New(),
			AssetID:          result.AssetID,
			Date:             day,
			CurrentValue:     result.CurrentValue.Decimal,
			AbsoluteReturn:   result.AbsoluteReturn.Decimal,
			PercentageReturn: result.PercentageReturn.Decimal,
			Currency:         result.Currency,
			RecordedAt:       recordedAt,
		})
	}

	if len(snapshots) > 0 {
		if err := s.history.Record(ctx, snapshots); err != nil {
			return nil, fmt.Errorf("failed to record return snapshots: %w", err)
		}
	}

	s.logger.CtxInfo(ctx, "Return snapshot recorded",
		"date", day.Format("2006-01-02"),
		"snapshots", len(snapshots),
		"unpriced", report.Summary.UnpricedCount,
		"invalid", report.Summary.InvalidCount)
	return report, nil
}

func (s *Service) MonthlyReturns(ctx context.Context) ([]*entities.MonthlyReturn, error) {
	return s.history.MonthlyReturns(ctx)
}

// WarmQuotes looks up every stored ticker so that caching providers are primed
func (s *Service) WarmQuotes(ctx context.Context) (int, error) {
	stored, err := s.assets.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list assets: %w", err)
	}

	var tickers []string
	for _, record := range stored {
		if record.Type.IsMarketQuoted() && record.Ticker != nil {
			tickers = append(tickers, *record.Ticker)
		}
	}
	if len(tickers) == 0 {
		return 0, nil
	}
	return len(s.quotes.FetchAll(ctx, tickers)), nil
}

// IsValidationError reports whether err was caused by bad client input
func IsValidationError(err error) bool {
	return errors.Is(err, entities.ErrInvalidAssetRecord) || errors.Is(err, entities.ErrInvalidAccrualInput)
}
