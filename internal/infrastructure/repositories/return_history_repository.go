package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
	"github.com/pfinance/pfinance_service/pkg/tracing"
)

// ReturnHistoryRepository stores daily return snapshots
type ReturnHistoryRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
	tracer trace.Tracer
}

func NewReturnHistoryRepository(db *sqlx.DB, logger *zap.Logger) *ReturnHistoryRepository {
	return &ReturnHistoryRepository{
		db:     db,
		logger: logger,
		tracer: otel.Tracer("return-history-repository"),
	}
}

// Record upserts snapshots in one transaction, keyed by asset and date
func (r *ReturnHistoryRepository) Record(ctx context.Context, snapshots []*entities.ReturnSnapshot) error {
	ctx, span := r.tracer.Start(ctx, "return_history_repo.record", trace.WithAttributes(
		attribute.Int("snapshot_count", len(snapshots)),
	))
	defer span.End()

	query := `
		INSERT INTO asset_returns (
			id, asset_id, date, current_value, absolute_return, percentage_return, currency, recorded_at
		) VALUES (
			:id, :asset_id, :date, :current_value, :absolute_return, :percentage_return, :currency, :recorded_at
		)
		ON CONFLICT (asset_id, date) DO UPDATE SET
			current_value = EXCLUDED.current_value,
			absolute_return = EXCLUDED.absolute_return,
			percentage_return = EXCLUDED.percentage_return,
			currency = EXCLUDED.currency,
			recorded_at = EXCLUDED.recorded_at
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, snapshot := range snapshots {
		err := tracing.TraceQuery(ctx, tracing.DBSpanConfig{Operation: "INSERT", Table: "asset_returns"}, func(ctx context.Context) error {
			_, err := tx.NamedExecContext(ctx, query, snapshot)
			return err
		})
		if err != nil {
			span.RecordError(err)
			r.logger.Error("failed to record return snapshot",
				zap.Error(err),
				zap.String("asset_id", snapshot.AssetID.String()))
			return fmt.Errorf("failed to record return snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to commit return snapshots: %w", err)
	}
	return nil
}

// MonthlyReturns compares the first and last snapshot of every asset per
// calendar month, newest month first
func (r *ReturnHistoryRepository) MonthlyReturns(ctx context.Context) ([]*entities.MonthlyReturn, error) {
	query := `
		WITH bounds AS (
			SELECT
				asset_id,
				EXTRACT(YEAR FROM date)::int AS year,
				EXTRACT(MONTH FROM date)::int AS month,
				MIN(date) AS first_date,
				MAX(date) AS last_date
			FROM asset_returns
			GROUP BY asset_id, EXTRACT(YEAR FROM date), EXTRACT(MONTH FROM date)
		)
		SELECT
			b.asset_id,
			a.name AS asset_name,
			b.year,
			b.month,
			l.currency,
			f.absolute_return AS first_return,
			l.absolute_return AS last_return
		FROM bounds b
		JOIN asset_returns f ON f.asset_id = b.asset_id AND f.date = b.first_date
		JOIN asset_returns l ON l.asset_id = b.asset_id AND l.date = b.last_date
		JOIN assets a ON a.id = b.asset_id
		ORDER BY b.year DESC, b.month DESC, a.name
	`

	rows := []*entities.MonthlyReturn{}
	err := tracing.TraceQuery(ctx, tracing.DBSpanConfig{Operation: "SELECT", Table: "asset_returns"}, func(ctx context.Context) error {
		return r.db.SelectContext(ctx, &rows, query)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly returns: %w", err)
	}
	return rows, nil
}
