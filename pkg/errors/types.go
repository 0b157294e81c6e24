package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeTimeout    ErrorType = "timeout"

	// ErrorTypeExternal represents failures reported by a quote provider or other upstream
	ErrorTypeExternal ErrorType = "external"

	// ErrorTypeTransient represents errors that can be retried
	ErrorTypeTransient ErrorType = "transient"
)

// AppError represents an application error with additional context
type AppError struct {
	Type       ErrorType         `json:"type"`
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Err        error             `json:"-"`
	Retryable  bool              `json:"retryable"`
	StatusCode int               `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on code and type so canned instances work with errors.Is
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Type == t.Type
}

// WithDetail returns a copy of the error carrying an extra detail
func (e *AppError) WithDetail(key, value string) *AppError {
	clone := *e
	clone.Details = make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		clone.Details[k] = v
	}
	clone.Details[key] = value
	return &clone
}

// Wrap returns a copy of the error wrapping cause
func (e *AppError) Wrap(cause error) *AppError {
	clone := *e
	clone.Err = cause
	return &clone
}

// Common error instances
var (
	ErrInternalServer = &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    "An internal server error occurred",
		StatusCode: http.StatusInternalServerError,
	}

	ErrValidation = &AppError{
		Type:       ErrorTypeValidation,
		Code:       "VALIDATION_ERROR",
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
	}

	ErrNotFound = &AppError{
		Type:       ErrorTypeNotFound,
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrDuplicateEntry = &AppError{
		Type:       ErrorTypeConflict,
		Code:       "DUPLICATE_ENTRY",
		Message:    "Duplicate entry",
		StatusCode: http.StatusConflict,
	}

	ErrRateLimit = &AppError{
		Type:       ErrorTypeRateLimit,
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded",
		StatusCode: http.StatusTooManyRequests,
		Retryable:  true,
	}

	ErrTimeout = &AppError{
		Type:       ErrorTypeTimeout,
		Code:       "TIMEOUT",
		Message:    "Request timeout",
		StatusCode: http.StatusGatewayTimeout,
		Retryable:  true,
	}

	ErrExternalService = &AppError{
		Type:       ErrorTypeExternal,
		Code:       "EXTERNAL_SERVICE_ERROR",
		Message:    "External service error",
		StatusCode: http.StatusBadGateway,
		Retryable:  true,
	}

	// ErrAssetNotFound is returned when a stored asset does not exist
	ErrAssetNotFound = &AppError{
		Type:       ErrorTypeNotFound,
		Code:       "ASSET_NOT_FOUND",
		Message:    "Asset not found",
		StatusCode: http.StatusNotFound,
	}

	// ErrInvalidAsset is returned when an asset record fails validation
	ErrInvalidAsset = &AppError{
		Type:       ErrorTypeValidation,
		Code:       "INVALID_ASSET",
		Message:    "Asset record is invalid",
		StatusCode: http.StatusBadRequest,
	}

	// ErrQuoteUnavailable is returned when a provider cannot price a ticker
	ErrQuoteUnavailable = &AppError{
		Type:       ErrorTypeExternal,
		Code:       "QUOTE_UNAVAILABLE",
		Message:    "Quote unavailable",
		StatusCode: http.StatusBadGateway,
		Retryable:  true,
	}
)

// New creates a new AppError
func New(errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:       errType,
		Code:       code,
		Message:    message,
		StatusCode: statusForType(errType),
		Retryable:  IsTransient(errType),
	}
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

func statusForType(errType ErrorType) int {
	switch errType {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case ErrorTypeExternal, ErrorTypeTransient:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
