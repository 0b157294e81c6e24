package jobqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/pfinance/pfinance_service/pkg/metrics"
)

const defaultJobTimeout = 5 * time.Minute

type ScheduledJob struct {
	Name     string
	Schedule string // cron spec with a leading seconds field
	Timeout  time.Duration
	Handler  func(ctx context.Context) error
}

type JobScheduler struct {
	cron   *cron.Cron
	logger *zap.Logger

	mu   sync.Mutex
	jobs map[string]cron.EntryID
	defs map[string]ScheduledJob
}

func NewJobScheduler(logger *zap.Logger) *JobScheduler {
	return &JobScheduler{
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger,
		jobs:   make(map[string]cron.EntryID),
		defs:   make(map[string]ScheduledJob),
	}
}

func (js *JobScheduler) AddJob(job ScheduledJob) error {
	if job.Timeout == 0 {
		job.Timeout = defaultJobTimeout
	}

	entryID, err := js.cron.AddFunc(job.Schedule, func() {
		_ = js.run(context.Background(), job)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", job.Schedule, job.Name, err)
	}

	js.mu.Lock()
	js.jobs[job.Name] = entryID
	js.defs[job.Name] = job
	js.mu.Unlock()
	return nil
}

// RunNow executes a registered job synchronously, outside its schedule
func (js *JobScheduler) RunNow(ctx context.Context, name string) error {
	js.mu.Lock()
	job, ok := js.defs[name]
	js.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return js.run(ctx, job)
}

func (js *JobScheduler) run(ctx context.Context, job ScheduledJob) error {
	ctx, cancel := context.WithTimeout(ctx, job.Timeout)
	defer cancel()

	start := time.Now()
	js.logger.Info("Executing scheduled job", zap.String("job", job.Name))
	if err := job.Handler(ctx); err != nil {
		metrics.RecordJobRun(job.Name, "failed")
		js.logger.Error("Scheduled job failed",
			zap.String("job", job.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return err
	}
	metrics.RecordJobRun(job.Name, "succeeded")
	js.logger.Info("Scheduled job completed",
		zap.String("job", job.Name),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (js *JobScheduler) RemoveJob(name string) {
	js.mu.Lock()
	defer js.mu.Unlock()
	if entryID, exists := js.jobs[name]; exists {
		js.cron.Remove(entryID)
		delete(js.jobs, name)
		delete(js.defs, name)
	}
}

func (js *JobScheduler) Start() {
	js.cron.Start()
	js.logger.Info("Job scheduler started", zap.Strings("jobs", js.GetJobs()))
}

func (js *JobScheduler) Stop() {
	ctx := js.cron.Stop()
	<-ctx.Done()
	js.logger.Info("Job scheduler stopped")
}

func (js *JobScheduler) GetJobs() []string {
	js.mu.Lock()
	defer js.mu.Unlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}
