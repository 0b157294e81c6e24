package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pfinance/pfinance_service/internal/api/handlers"
	"github.com/pfinance/pfinance_service/internal/api/middleware"
	"github.com/pfinance/pfinance_service/internal/infrastructure/di"
	"github.com/pfinance/pfinance_service/pkg/tracing"
	"github.com/pfinance/pfinance_service/pkg/version"
)

// SetupRoutes configures all application routes
func SetupRoutes(container *di.Container) *gin.Engine {
	router := gin.New()

	// Global middleware - order matters
	router.Use(tracing.HTTPMiddleware()) // Tracing should be early in the chain
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.Logger(container.Logger))
	router.Use(middleware.Recovery(container.Logger))
	router.Use(middleware.CORS(container.Config.Server.AllowedOrigins))
	router.Use(middleware.RateLimit(container.Config.Server.RateLimitPerMin))
	router.Use(middleware.SecurityHeaders())

	healthHandler := handlers.NewHealthHandler(container.Health, version.Version, container.Logger)
	assetHandlers := handlers.NewAssetHandlers(container.PortfolioService, container.Logger)
	returnHandlers := handlers.NewReturnHandlers(container.PortfolioService, container.Logger)

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", handlers.Metrics())
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Get())
	})

	v1 := router.Group("/api/v1")
	{
		assets := v1.Group("/assets")
		{
			assets.POST("", assetHandlers.CreateAsset)
			assets.GET("", assetHandlers.ListAssets)
			assets.GET("/:id", assetHandlers.GetAsset)
			assets.DELETE("/:id", assetHandlers.DeleteAsset)
		}

		returns := v1.Group("/returns")
		{
			returns.GET("", returnHandlers.GetReturns)
			returns.POST("/evaluate", returnHandlers.Evaluate)
			returns.GET("/monthly", returnHandlers.MonthlyReturns)
		}
	}

	return router
}
