package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	apperrors "github.com/pfinance/pfinance_service/pkg/errors"
	"github.com/pfinance/pfinance_service/pkg/metrics"
)

type Config struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// MinRequests and FailureRatio decide when the breaker opens
	MinRequests  uint32
	FailureRatio float64
}

func DefaultConfig() Config {
	return Config{
		MaxRequests:  3,
		Interval:     10 * time.Second,
		Timeout:      60 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

// New builds a breaker that only counts upstream failures (timeouts, 5xx,
// connection errors) and reports its state to the circuit breaker gauge.
func New(name string, cfg Config, logger *zap.Logger) *gobreaker.CircuitBreaker {
	if cfg.MinRequests == 0 {
		cfg.MinRequests = DefaultConfig().MinRequests
	}
	if cfg.FailureRatio == 0 {
		cfg.FailureRatio = DefaultConfig().FailureRatio
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !apperrors.IsCircuitBreakerError(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			metrics.UpdateCircuitBreakerState(name, StateValue(to))
			if logger != nil {
				logger.Warn("Circuit breaker state changed",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			}
		},
	}
	metrics.UpdateCircuitBreakerState(name, StateValue(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker(settings)
}

// StateValue maps a breaker state to the gauge encoding (0=closed, 1=open, 2=half-open)
func StateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
