package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	apperrors "github.com/pfinance/pfinance_service/pkg/errors"
)

func TestBreaker_OpensOnUpstreamFailures(t *testing.T) {
	cb := New("test-upstream", Config{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute}, zaptest.NewLogger(t))

	upstream := apperrors.FromHTTPStatus("test", 503, "")
	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, upstream })
		assert.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())
	_, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
}

func TestBreaker_IgnoresClientErrors(t *testing.T) {
	cb := New("test-client", DefaultConfig(), zaptest.NewLogger(t))

	notFound := apperrors.FromHTTPStatus("test", 404, "unknown ticker")
	for i := 0; i < 10; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, notFound })
		assert.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestStateValue(t *testing.T) {
	assert.Equal(t, float64(0), StateValue(gobreaker.StateClosed))
	assert.Equal(t, float64(1), StateValue(gobreaker.StateOpen))
	assert.Equal(t, float64(2), StateValue(gobreaker.StateHalfOpen))
}
