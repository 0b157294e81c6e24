package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
	"github.com/pfinance/pfinance_service/pkg/tracing"
)

const assetColumns = `id, type, name, ticker, price, amount, currency,
	interest_rate, compounding_frequency, interest_start, created_at`

// AssetRepository handles asset persistence operations
type AssetRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *sqlx.DB, logger *zap.Logger) *AssetRepository {
	return &AssetRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new asset record
func (r *AssetRepository) Create(ctx context.Context, record *entities.AssetRecord) error {
	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES (:id, :type, :name, :ticker, :price, :amount, :currency,
			:interest_rate, :compounding_frequency, :interest_start, :created_at)
	`

	err := tracing.TraceQuery(ctx, tracing.DBSpanConfig{Operation: "INSERT", Table: "assets"}, func(ctx context.Context) error {
		_, err := r.db.NamedExecContext(ctx, query, record)
		return err
	})
	if err != nil {
		r.logger.Error("failed to create asset",
			zap.Error(err),
			zap.String("asset_id", record.ID.String()))
		return fmt.Errorf("failed to create asset: %w", err)
	}

	r.logger.Debug("asset created", zap.String("asset_id", record.ID.String()))
	return nil
}

// GetByID returns the asset with id or entities.ErrAssetNotFound
func (r *AssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.AssetRecord, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	var record entities.AssetRecord
	err := tracing.TraceQuery(ctx, tracing.DBSpanConfig{Operation: "SELECT", Table: "assets"}, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &record, query, id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entities.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &record, nil
}

// List returns every asset, oldest first
func (r *AssetRepository) List(ctx context.Context) ([]*entities.AssetRecord, error) {
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY created_at, id`

	records := []*entities.AssetRecord{}
	err := tracing.TraceQuery(ctx, tracing.DBSpanConfig{Operation: "SELECT", Table: "assets"}, func(ctx context.Context) error {
		return r.db.SelectContext(ctx, &records, query)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return records, nil
}

func (r *AssetRepository) ListByType(ctx context.Context, assetType entities.AssetType) ([]*entities.AssetRecord, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE type = $1 ORDER BY created_at, id`

	records := []*entities.AssetRecord{}
	err := tracing.TraceQuery(ctx, tracing.DBSpanConfig{Operation: "SELECT", Table: "assets"}, func(ctx context.Context) error {
		return r.db.SelectContext(ctx, &records, query, assetType)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assets by type: %w", err)
	}
	return records, nil
}

// Delete removes an asset and, through the foreign key, its return history
func (r *AssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var affected int64
	err := tracing.TraceQuery(ctx, tracing.DBSpanConfig{Operation: "DELETE", Table: "assets"}, func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	if affected == 0 {
		return entities.ErrAssetNotFound
	}
	return nil
}
