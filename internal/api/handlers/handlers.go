package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
	"github.com/pfinance/pfinance_service/internal/domain/services/portfolio"
)

// PortfolioService is the application service behind the asset and returns endpoints
type PortfolioService interface {
	CreateAsset(ctx context.Context, record entities.AssetRecord) (*entities.AssetRecord, error)
	GetAsset(ctx context.Context, id uuid.UUID) (*entities.AssetRecord, error)
	ListAssets(ctx context.Context, assetType entities.AssetType) ([]*entities.AssetRecord, error)
	DeleteAsset(ctx context.Context, id uuid.UUID) error
	EvaluateInputs(ctx context.Context, inputs []portfolio.Input, asOf time.Time) *entities.PortfolioReport
	EvaluateStored(ctx context.Context, asOf time.Time) (*entities.PortfolioReport, error)
	MonthlyReturns(ctx context.Context) ([]*entities.MonthlyReturn, error)
}

// Metrics exposes the Prometheus registry
func Metrics() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
