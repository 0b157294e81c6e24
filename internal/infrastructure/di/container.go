package di

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/pfinance/pfinance_service/internal/adapters/goldprice"
	"github.com/pfinance/pfinance_service/internal/adapters/stockapi"
	"github.com/pfinance/pfinance_service/internal/domain/services/portfolio"
	"github.com/pfinance/pfinance_service/internal/domain/services/quotes"
	"github.com/pfinance/pfinance_service/internal/infrastructure/adapters"
	"github.com/pfinance/pfinance_service/internal/infrastructure/cache"
	"github.com/pfinance/pfinance_service/internal/infrastructure/config"
	"github.com/pfinance/pfinance_service/internal/infrastructure/repositories"
	"github.com/pfinance/pfinance_service/internal/workers/returns_snapshot"
	"github.com/pfinance/pfinance_service/pkg/circuitbreaker"
	"github.com/pfinance/pfinance_service/pkg/health"
	"github.com/pfinance/pfinance_service/pkg/jobqueue"
	"github.com/pfinance/pfinance_service/pkg/logger"
	"github.com/pfinance/pfinance_service/pkg/retry"
)

const healthCheckTimeout = 5 * time.Second

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  redis.UniversalClient
	Logger *logger.Logger
	ZapLog *zap.Logger

	// Repositories
	AssetRepo         *repositories.AssetRepository
	ReturnHistoryRepo *repositories.ReturnHistoryRepository

	// Quote providers
	StockClient  *stockapi.Client
	GoldClient   *goldprice.Client
	QuoteFetcher *quotes.Fetcher

	// External Services
	Notifier         adapters.Notifier
	CacheInvalidator *cache.CacheInvalidator

	// Domain Services
	PortfolioService *portfolio.Service

	// Workers
	SnapshotWorker *returns_snapshot.Worker
	Scheduler      *jobqueue.JobScheduler

	Health *health.HealthChecker
}

// NewContainer creates a new dependency injection container. A Redis outage at
// startup disables the quote cache instead of failing.
func NewContainer(cfg *config.Config, db *sqlx.DB, log *logger.Logger) (*Container, error) {
	zapLog := log.Zap()

	c := &Container{
		Config: cfg,
		DB:     db,
		Logger: log,
		ZapLog: zapLog,
	}

	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			zapLog.Warn("Redis unavailable, quote cache disabled", zap.Error(err))
		} else {
			c.Redis = client
		}
	}

	c.AssetRepo = repositories.NewAssetRepository(db, zapLog)
	c.ReturnHistoryRepo = repositories.NewReturnHistoryRepository(db, zapLog)

	c.initializeQuoteProviders()

	notifier, err := adapters.NewNotifier(cfg.Notification.Provider, zapLog, adapters.NotifierOptions{
		Email: adapters.EmailServiceConfig{
			APIKey:      cfg.Notification.APIKey,
			FromEmail:   cfg.Notification.FromEmail,
			FromName:    cfg.Notification.FromName,
			Environment: cfg.Notification.Environment,
		},
		Matrix: adapters.MatrixConfig{
			Homeserver:  cfg.Notification.MatrixHomeserver,
			RoomID:      cfg.Notification.MatrixRoomID,
			AccessToken: cfg.Notification.MatrixAccessToken,
		},
	})
	if err != nil {
		return nil, err
	}
	c.Notifier = notifier

	c.PortfolioService = portfolio.NewService(c.AssetRepo, c.ReturnHistoryRepo, c.QuoteFetcher, log.Named("portfolio"))

	if err := c.initializeWorkers(); err != nil {
		return nil, err
	}

	c.initializeHealthChecks()

	return c, nil
}

// initializeQuoteProviders builds stock and gold clients, routes XAU tickers to
// the gold client and puts the cache in front of the router.
func (c *Container) initializeQuoteProviders() {
	cfg := c.Config.Quotes

	retryConfig := retry.DefaultConfig()
	if cfg.MaxRetries > 0 {
		retryConfig.MaxAttempts = cfg.MaxRetries
	}

	c.StockClient = stockapi.NewClient(stockapi.Config{
		BaseURL: cfg.StockAPIURL,
		Timeout: cfg.RequestTimeoutDuration(),
		Retry:   retryConfig,
		Breaker: circuitbreaker.DefaultConfig(),
	}, c.ZapLog)

	c.GoldClient = goldprice.NewClient(goldprice.Config{
		BaseURL:         cfg.GoldAPIURL,
		DefaultCurrency: cfg.DefaultCurrency,
		Timeout:         cfg.RequestTimeoutDuration(),
		Retry:           retryConfig,
		Breaker:         circuitbreaker.DefaultConfig(),
	}, c.ZapLog)

	router := quotes.NewRouter(c.StockClient).Register(goldprice.TickerPrefix, c.GoldClient)

	var provider quotes.Provider = router
	if c.Redis != nil {
		store := cache.NewDistributedCache(c.Redis, c.ZapLog)
		provider = cache.NewCachingProvider(router, store, cfg.CacheTTLDuration(), c.ZapLog)
		c.CacheInvalidator = cache.NewCacheInvalidator(store, c.ZapLog)
	}

	c.QuoteFetcher = quotes.NewFetcher(provider, quotes.FetcherConfig{
		MaxConcurrency: cfg.MaxConcurrency,
		LookupTimeout:  cfg.LookupTimeoutDuration(),
	}, c.ZapLog)
}

func (c *Container) initializeWorkers() error {
	var invalidator returns_snapshot.QuoteInvalidator
	if c.CacheInvalidator != nil {
		invalidator = c.CacheInvalidator
	}

	c.SnapshotWorker = returns_snapshot.NewWorker(
		c.PortfolioService,
		c.Notifier,
		invalidator,
		returns_snapshot.Config{
			SnapshotSchedule: c.Config.Jobs.SnapshotSchedule,
			WarmupSchedule:   c.Config.Jobs.WarmupSchedule,
			Recipients:       c.Config.Notification.Recipients,
		},
		c.ZapLog,
	)

	c.Scheduler = jobqueue.NewJobScheduler(c.ZapLog)
	return c.SnapshotWorker.Register(c.Scheduler)
}

func (c *Container) initializeHealthChecks() {
	c.Health = health.NewHealthChecker(healthCheckTimeout)
	c.Health.Register(health.NewDatabaseChecker(c.DB.DB, healthCheckTimeout))
	if c.Redis != nil {
		c.Health.Register(health.NewRedisChecker(c.Redis, healthCheckTimeout))
	}
	c.Health.Register(health.NewBreakerChecker("stock_api", c.StockClient.Breaker()))
	c.Health.Register(health.NewBreakerChecker("gold_price_api", c.GoldClient.Breaker()))
}

// Close releases connections owned by the container
func (c *Container) Close() error {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			return err
		}
	}
	return c.DB.Close()
}
