package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pfinance/pfinance_service/pkg/health"
	"github.com/pfinance/pfinance_service/pkg/logger"
)

// HealthHandler reports the state of the database, cache and quote providers
type HealthHandler struct {
	checker *health.HealthChecker
	version string
	logger  *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker *health.HealthChecker, version string, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		version: version,
		logger:  logger,
	}
}

// Health runs every registered check. Degraded dependencies still answer 200,
// only an unhealthy one turns the response into a 503.
func (h *HealthHandler) Health(c *gin.Context) {
	status, checks := h.checker.Check(c.Request.Context())

	response := health.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Checks:    checks,
	}

	statusCode := http.StatusOK
	if status == health.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
		h.logger.Warnw("Health check failed", "checks", checks)
	}

	c.JSON(statusCode, response)
}
