package returns_snapshot

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
	"github.com/pfinance/pfinance_service/pkg/jobqueue"
)

const (
	JobReturnsSnapshot = "returns_snapshot"
	JobQuoteWarmup     = "quote_warmup"
)

type PortfolioService interface {
	SnapshotReturns(ctx context.Context, asOf time.Time) (*entities.PortfolioReport, error)
	WarmQuotes(ctx context.Context) (int, error)
}

type Notifier interface {
	Send(ctx context.Context, to, subject, textContent, htmlContent string) error
}

type QuoteInvalidator interface {
	InvalidateQuotes(ctx context.Context) (int, error)
}

type Config struct {
	SnapshotSchedule string
	WarmupSchedule   string
	Recipients       []string
}

// Worker runs the scheduled snapshot and quote warm-up jobs
type Worker struct {
	service     PortfolioService
	notifier    Notifier
	invalidator QuoteInvalidator
	config      Config
	logger      *zap.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewWorker creates the worker. notifier and invalidator may be nil.
func NewWorker(service PortfolioService, notifier Notifier, invalidator QuoteInvalidator, config Config, logger *zap.Logger) *Worker {
	return &Worker{
		service:     service,
		notifier:    notifier,
		invalidator: invalidator,
		config:      config,
		logger:      logger,
		tracer:      otel.Tracer("returns-snapshot-worker"),
		now:         time.Now,
	}
}

// Register adds both jobs to scheduler
func (w *Worker) Register(scheduler *jobqueue.JobScheduler) error {
	if err := scheduler.AddJob(jobqueue.ScheduledJob{
		Name:     JobReturnsSnapshot,
		Schedule: w.config.SnapshotSchedule,
		Handler:  w.RunSnapshot,
	}); err != nil {
		return err
	}
	return scheduler.AddJob(jobqueue.ScheduledJob{
		Name:     JobQuoteWarmup,
		Schedule: w.config.WarmupSchedule,
		Timeout:  2 * time.Minute,
		Handler:  w.RunQuoteWarmup,
	})
}

// RunSnapshot records today's returns and mails the digest to every recipient
func (w *Worker) RunSnapshot(ctx context.Context) error {
	asOf := w.now().UTC()
	ctx, span := w.tracer.Start(ctx, "returns_snapshot.run", trace.WithAttributes(
		attribute.String("as_of", asOf.Format("2006-01-02")),
	))
	defer span.End()

	report, err := w.service.SnapshotReturns(ctx, asOf)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("snapshot returns: %w", err)
	}

	w.logger.Info("Returns snapshot completed",
		zap.Int("assets", report.Summary.AssetCount),
		zap.Int("priced", report.Summary.PricedCount),
		zap.Int("unpriced", report.Summary.UnpricedCount))

	if w.notifier == nil || len(w.config.Recipients) == 0 {
		return nil
	}

	digest := BuildDigest(report)
	var failed int
	for _, to := range w.config.Recipients {
		if err := w.notifier.Send(ctx, to, digest.Subject, digest.Text, digest.HTML); err != nil {
			failed++
			w.logger.Warn("Failed to send portfolio digest", zap.String("to", to), zap.Error(err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("digest delivery failed for %d of %d recipients", failed, len(w.config.Recipients))
	}
	return nil
}

// RunQuoteWarmup drops cached quotes and fetches fresh ones for every stored ticker
func (w *Worker) RunQuoteWarmup(ctx context.Context) error {
	if w.invalidator != nil {
		removed, err := w.invalidator.InvalidateQuotes(ctx)
		if err != nil {
			w.logger.Warn("Failed to invalidate cached quotes", zap.Error(err))
		} else {
			w.logger.Debug("Invalidated cached quotes", zap.Int("removed", removed))
		}
	}

	warmed, err := w.service.WarmQuotes(ctx)
	if err != nil {
		return fmt.Errorf("warm quotes: %w", err)
	}
	w.logger.Info("Quote cache warmed", zap.Int("tickers", warmed))
	return nil
}
