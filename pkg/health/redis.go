package health

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisChecker checks the quote cache connection. A cache outage only
// degrades the service since lookups fall through to the providers.
type RedisChecker struct {
	client  redis.UniversalClient
	timeout time.Duration
}

// NewRedisChecker creates a new Redis health checker
func NewRedisChecker(client redis.UniversalClient, timeout time.Duration) *RedisChecker {
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	return &RedisChecker{client: client, timeout: timeout}
}

// Check pings Redis
func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.client.Ping(ctx).Err(); err != nil {
		return NewDegradedResult(c.Name(), "quote cache unavailable").
			WithDuration(time.Since(start)).
			WithMetadata("error", err.Error())
	}

	return NewHealthyResult(c.Name(), "connected").WithDuration(time.Since(start))
}

// Name returns the checker name
func (c *RedisChecker) Name() string {
	return "redis"
}
