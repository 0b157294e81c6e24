package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
)

// AssetRepository defines the interface for asset record persistence
type AssetRepository interface {
	Create(ctx context.Context, record *entities.AssetRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.AssetRecord, error)
	List(ctx context.Context) ([]*entities.AssetRecord, error)
	ListByType(ctx context.Context, assetType entities.AssetType) ([]*entities.AssetRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReturnHistoryRepository defines the interface for daily return snapshots
type ReturnHistoryRepository interface {
	Record(ctx context.Context, snapshots []*entities.ReturnSnapshot) error
	MonthlyReturns(ctx context.Context) ([]*entities.MonthlyReturn, error)
}
