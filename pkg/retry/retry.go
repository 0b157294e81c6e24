package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// RetryConfig holds configuration for retry behavior
type RetryConfig struct {
	MaxAttempts int           // Maximum number of attempts, including the first
	BaseDelay   time.Duration // Delay before the second attempt
	MaxDelay    time.Duration // Upper bound for any single delay
	Multiplier  float64       // Backoff multiplier
	Jitter      float64       // Fraction of the delay randomised in both directions, 0..1
}

// DefaultConfig returns a default retry configuration
func DefaultConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    2 * time.Second,
		Multiplier:  2.0,
		Jitter:      0.1,
	}
}

// RetryableFunc represents a function that can be retried
type RetryableFunc func() error

// IsRetryableFunc determines if an error should trigger a retry
type IsRetryableFunc func(error) bool

// WithExponentialBackoff retries fn until it succeeds, returns a non-retryable
// error, runs out of attempts or ctx is done.
func WithExponentialBackoff(
	ctx context.Context,
	config RetryConfig,
	fn RetryableFunc,
	isRetryable IsRetryableFunc,
) error {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}
		if attempt == config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled by context: %w", lastErr)
		case <-time.After(Delay(config, attempt)):
		}
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", config.MaxAttempts, lastErr)
}

// Delay returns the wait before attempt+1
func Delay(config RetryConfig, attempt int) time.Duration {
	delay := float64(config.BaseDelay) * math.Pow(config.Multiplier, float64(attempt))
	if config.MaxDelay > 0 && delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.Jitter > 0 {
		spread := delay * config.Jitter
		delay = delay - spread + rand.Float64()*2*spread
	}
	return time.Duration(delay)
}

var temporaryPatterns = []string{
	"connection refused",
	"timeout",
	"temporary failure",
	"service unavailable",
	"internal server error",
	"too many requests",
	"rate limited",
	"network is unreachable",
	"no route to host",
	"connection reset",
	"eof",
}

// IsTemporaryError is a common retry predicate for temporary/transient errors
func IsTemporaryError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range temporaryPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
