package errors

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ClassifyError classifies an error for retry and circuit breaker logic
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorTypeInternal // Canceled is typically not retryable
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrorTypeNotFound
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return ErrorTypeInternal
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTypeTimeout
	}

	var syscallErr syscall.Errno
	if errors.As(err, &syscallErr) {
		switch syscallErr {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED:
			return ErrorTypeTransient
		case syscall.ETIMEDOUT:
			return ErrorTypeTimeout
		}
	}

	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline exceeded"):
		return ErrorTypeTimeout
	case strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "broken pipe"):
		return ErrorTypeTransient
	case strings.Contains(errMsg, "rate limit") || strings.Contains(errMsg, "too many requests"):
		return ErrorTypeRateLimit
	case strings.Contains(errMsg, "invalid") ||
		strings.Contains(errMsg, "malformed") ||
		strings.Contains(errMsg, "bad request"):
		return ErrorTypeValidation
	case strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "already exists"):
		return ErrorTypeConflict
	case strings.Contains(errMsg, "not found") || strings.Contains(errMsg, "no such"):
		return ErrorTypeNotFound
	}

	return ErrorTypeInternal
}

// ClassifyHTTPError classifies HTTP response errors
func ClassifyHTTPError(statusCode int) ErrorType {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "" // Success
	case statusCode == http.StatusNotFound:
		return ErrorTypeNotFound
	case statusCode == http.StatusConflict:
		return ErrorTypeConflict
	case statusCode == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case statusCode == http.StatusRequestTimeout:
		return ErrorTypeTimeout
	case statusCode >= 400 && statusCode < 500:
		return ErrorTypeValidation // Client error
	case statusCode == http.StatusBadGateway || statusCode == http.StatusServiceUnavailable:
		return ErrorTypeTransient
	case statusCode == http.StatusGatewayTimeout:
		return ErrorTypeTimeout
	case statusCode >= 500:
		return ErrorTypeExternal // Server error from external service
	default:
		return ErrorTypeInternal
	}
}

// ShouldRetry determines if an error should be retried
func ShouldRetry(err error) bool {
	return IsTransient(ClassifyError(err))
}

// IsCircuitBreakerError determines if an error should trip the circuit breaker.
// Client-side failures such as an unknown ticker do not count.
func IsCircuitBreakerError(err error) bool {
	switch ClassifyError(err) {
	case ErrorTypeTimeout, ErrorTypeTransient, ErrorTypeExternal, ErrorTypeRateLimit:
		return true
	default:
		return false
	}
}
