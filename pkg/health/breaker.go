package health

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerChecker reports the state of an upstream's circuit breaker
type BreakerChecker struct {
	name    string
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerChecker creates a checker for the named upstream
func NewBreakerChecker(name string, breaker *gobreaker.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

// Check is degraded while the breaker is not closed
func (c *BreakerChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	state := c.breaker.State()
	counts := c.breaker.Counts()

	var result CheckResult
	if state == gobreaker.StateClosed {
		result = NewHealthyResult(c.name, "circuit closed")
	} else {
		result = NewDegradedResult(c.name, "circuit "+state.String())
	}

	return result.
		WithDuration(time.Since(start)).
		WithMetadata("state", state.String()).
		WithMetadata("consecutive_failures", counts.ConsecutiveFailures)
}

// Name returns the checker name
func (c *BreakerChecker) Name() string {
	return c.name
}
