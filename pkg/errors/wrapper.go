package errors

import (
	"fmt"
)

// WrapWithType wraps an error with a specific error type
func WrapWithType(err error, errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:       errType,
		Code:       code,
		Message:    message,
		Err:        err,
		Retryable:  IsTransient(errType),
		StatusCode: statusForType(errType),
	}
}

// FromHTTPStatus builds an AppError for a failed upstream HTTP response
func FromHTTPStatus(service string, statusCode int, body string) *AppError {
	errType := ClassifyHTTPError(statusCode)
	if errType == "" {
		errType = ErrorTypeInternal
	}
	appErr := WrapWithType(
		fmt.Errorf("%s returned status %d: %s", service, statusCode, body),
		errType,
		"UPSTREAM_HTTP_ERROR",
		fmt.Sprintf("%s request failed", service),
	)
	return appErr.WithDetail("status_code", fmt.Sprintf("%d", statusCode))
}

// IsTransient determines if an error type is transient
func IsTransient(errType ErrorType) bool {
	switch errType {
	case ErrorTypeTransient, ErrorTypeTimeout, ErrorTypeRateLimit:
		return true
	case ErrorTypeExternal:
		return true // External errors are often transient
	default:
		return false
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION_ERROR", message)
}
