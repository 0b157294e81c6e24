package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ""},
		{"app error", ErrAssetNotFound, ErrorTypeNotFound},
		{"wrapped app error", fmt.Errorf("lookup: %w", ErrQuoteUnavailable), ErrorTypeExternal},
		{"deadline", context.DeadlineExceeded, ErrorTypeTimeout},
		{"canceled", context.Canceled, ErrorTypeInternal},
		{"connection refused", stderrors.New("dial tcp: connection refused"), ErrorTypeTransient},
		{"rate limited", stderrors.New("429 Too Many Requests"), ErrorTypeRateLimit},
		{"not found text", stderrors.New("symbol not found"), ErrorTypeNotFound},
		{"unknown", stderrors.New("boom"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
	}{
		{http.StatusOK, ""},
		{http.StatusBadRequest, ErrorTypeValidation},
		{http.StatusNotFound, ErrorTypeNotFound},
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusInternalServerError, ErrorTypeExternal},
		{http.StatusServiceUnavailable, ErrorTypeTransient},
		{http.StatusGatewayTimeout, ErrorTypeTimeout},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyHTTPError(tt.status))
		})
	}
}

func TestFromHTTPStatus(t *testing.T) {
	notFound := FromHTTPStatus("stockapi", http.StatusNotFound, "no such symbol")
	assert.False(t, notFound.Retryable)
	assert.False(t, IsCircuitBreakerError(notFound))
	assert.Equal(t, "404", notFound.Details["status_code"])

	unavailable := FromHTTPStatus("stockapi", http.StatusServiceUnavailable, "")
	assert.True(t, unavailable.Retryable)
	assert.True(t, ShouldRetry(unavailable))
	assert.True(t, IsCircuitBreakerError(unavailable))
}

func TestAppError_WithDetailDoesNotMutateShared(t *testing.T) {
	detailed := ErrInvalidAsset.WithDetail("field", "currency")

	assert.Equal(t, "currency", detailed.Details["field"])
	assert.Empty(t, ErrInvalidAsset.Details)
	assert.True(t, stderrors.Is(detailed, ErrInvalidAsset))
	assert.Equal(t, http.StatusBadRequest, GetStatusCode(detailed))
}
