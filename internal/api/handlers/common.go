package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
	"github.com/pfinance/pfinance_service/internal/domain/services/portfolio"
	apperrors "github.com/pfinance/pfinance_service/pkg/errors"
	"github.com/pfinance/pfinance_service/pkg/logger"
	"github.com/pfinance/pfinance_service/pkg/tracing"
)

const dateLayout = "2006-01-02"

// getRequestID extracts request ID from context
func getRequestID(c *gin.Context) string {
	if reqID, exists := c.Get("request_id"); exists {
		if id, ok := reqID.(string); ok {
			return id
		}
	}
	return ""
}

// requestLogger prefers the request-scoped logger set by the logging middleware
func requestLogger(c *gin.Context, fallback *logger.Logger) *logger.Logger {
	if l, exists := c.Get("logger"); exists {
		if log, ok := l.(*logger.Logger); ok {
			return log
		}
	}
	return fallback
}

// respondError sends a standardized error response
func respondError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, entities.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// respondBadRequest sends a bad request error
func respondBadRequest(c *gin.Context, message string, details map[string]interface{}) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", message, details)
}

// respondAppError renders an AppError, logging server-side failures
func respondAppError(c *gin.Context, log *logger.Logger, appErr *apperrors.AppError) {
	status := apperrors.GetStatusCode(appErr)

	details := make(map[string]interface{}, len(appErr.Details)+1)
	for k, v := range appErr.Details {
		details[k] = v
	}
	if requestID := getRequestID(c); requestID != "" {
		details["request_id"] = requestID
	}
	if traceID := tracing.GetTraceIDFromContext(c.Request.Context()); traceID != "" {
		details["trace_id"] = traceID
	}

	if status >= http.StatusInternalServerError {
		requestLogger(c, log).WithError(appErr).CtxError(c.Request.Context(), "Request failed",
			"code", appErr.Code,
		)
	}

	respondError(c, status, appErr.Code, appErr.Message, details)
}

// toAppError maps service and domain errors onto API errors
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, entities.ErrAssetNotFound):
		return apperrors.ErrAssetNotFound.Wrap(err)
	case portfolio.IsValidationError(err):
		return apperrors.ErrInvalidAsset.WithDetail("reason", err.Error()).Wrap(err)
	default:
		return apperrors.ErrInternalServer.Wrap(err)
	}
}

// bindingDetails turns validator failures into a field -> rule map
func bindingDetails(err error) map[string]interface{} {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]interface{}{"error": err.Error()}
	}
	details := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		details[fieldPath(fe)] = fe.Tag()
	}
	return details
}

// fieldPath drops the root struct name from a validator namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// parseDate accepts YYYY-MM-DD or RFC3339 and returns a UTC instant
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
