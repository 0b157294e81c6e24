package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pfinance/pfinance_service/internal/api/routes"
	"github.com/pfinance/pfinance_service/internal/infrastructure/config"
	"github.com/pfinance/pfinance_service/internal/infrastructure/database"
	"github.com/pfinance/pfinance_service/internal/infrastructure/di"
	"github.com/pfinance/pfinance_service/pkg/logger"
	"github.com/pfinance/pfinance_service/pkg/tracing"
	"github.com/pfinance/pfinance_service/pkg/version"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel, cfg.Environment)
	log.Info(version.Get().String())

	shutdownTracer, err := tracing.InitTracer(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Tracing.ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		Insecure:     cfg.Tracing.Insecure,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing", "error", err)
	}

	// Initialize database
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}

	if cfg.Database.RunMigrations {
		if err := database.RunMigrations(db.DB); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		log.Info("Database migrations applied")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Build dependency injection container
	container, err := di.NewContainer(cfg, db, log)
	if err != nil {
		log.Fatal("Failed to create DI container", "error", err)
	}

	router := routes.SetupRoutes(container)

	if cfg.Jobs.Enabled {
		container.Scheduler.Start()
	}

	server := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	// Start server in goroutine
	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if cfg.Jobs.Enabled {
		container.Scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	if err := shutdownTracer(ctx); err != nil {
		log.Warnw("Error flushing traces", "error", err)
	}
	if err := container.Close(); err != nil {
		log.Warnw("Error closing connections", "error", err)
	}

	log.Info("Server exited")
}
