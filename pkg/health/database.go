package health

import (
	"context"
	"database/sql"
	"time"
)

// DatabaseChecker checks database connectivity
type DatabaseChecker struct {
	db      *sql.DB
	timeout time.Duration
}

// NewDatabaseChecker creates a new database health checker
func NewDatabaseChecker(db *sql.DB, timeout time.Duration) *DatabaseChecker {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &DatabaseChecker{db: db, timeout: timeout}
}

// Check pings the database and reports pool usage
func (c *DatabaseChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.db.PingContext(ctx); err != nil {
		return NewUnhealthyResult(c.Name(), err).WithDuration(time.Since(start))
	}

	stats := c.db.Stats()
	result := NewHealthyResult(c.Name(), "connected").
		WithDuration(time.Since(start)).
		WithMetadata("open_connections", stats.OpenConnections).
		WithMetadata("in_use", stats.InUse).
		WithMetadata("idle", stats.Idle)

	if stats.MaxOpenConnections > 0 {
		utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections)
		result = result.WithMetadata("pool_utilization", utilization)
		if utilization > 0.8 {
			result.Status = StatusDegraded
			result.Message = "high connection pool utilization"
		}
	}

	return result
}

// Name returns the checker name
func (c *DatabaseChecker) Name() string {
	return "database"
}
