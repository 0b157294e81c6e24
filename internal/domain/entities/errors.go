package entities

import "errors"

var (
	// ErrInvalidAccrualInput is returned when savings terms cannot be accrued
	ErrInvalidAccrualInput = errors.New("invalid accrual input")

	// ErrMissingQuote is returned when no usable quote exists for a market-quoted asset
	ErrMissingQuote = errors.New("missing quote")

	// ErrInvalidAssetRecord is returned when a record does not describe a valid asset
	ErrInvalidAssetRecord = errors.New("invalid asset record")

	ErrAssetNotFound = errors.New("asset not found")
)

// ErrorResponse represents API error responses
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
