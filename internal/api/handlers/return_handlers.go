package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
	"github.com/pfinance/pfinance_service/internal/domain/services/portfolio"
	"github.com/pfinance/pfinance_service/pkg/logger"
)

// EvaluateRequest is a collection of assets to value without persisting them.
// Both as_of and asOf are accepted.
type EvaluateRequest struct {
	AsOf      string         `json:"as_of"`
	AsOfCamel string         `json:"asOf"`
	Assets    []AssetPayload `json:"assets"`
}

// MonthlyReturnResponse adds the month's movement to a stored monthly return
type MonthlyReturnResponse struct {
	*entities.MonthlyReturn
	Change decimal.Decimal `json:"change"`
}

type ReturnHandlers struct {
	service PortfolioService
	logger  *logger.Logger
	now     func() time.Time
}

func NewReturnHandlers(service PortfolioService, logger *logger.Logger) *ReturnHandlers {
	return &ReturnHandlers{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// GetReturns handles GET /api/v1/returns?as_of=YYYY-MM-DD over the stored assets
func (h *ReturnHandlers) GetReturns(c *gin.Context) {
	asOf, ok := h.resolveAsOf(c, c.Query("as_of"))
	if !ok {
		return
	}

	report, err := h.service.EvaluateStored(c.Request.Context(), asOf)
	if err != nil {
		respondAppError(c, h.logger, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, report)
}

// Evaluate handles POST /api/v1/returns/evaluate. Invalid assets are reported
// per result, only a malformed body fails the request.
func (h *ReturnHandlers) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid evaluation request", bindingDetails(err))
		return
	}

	rawAsOf := req.AsOf
	if rawAsOf == "" {
		rawAsOf = req.AsOfCamel
	}
	asOf, ok := h.resolveAsOf(c, rawAsOf)
	if !ok {
		return
	}

	inputs := make([]portfolio.Input, 0, len(req.Assets))
	for _, payload := range req.Assets {
		record, err := payload.ToRecord()
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		inputs = append(inputs, portfolio.Input{Record: record, Err: err})
	}

	c.JSON(http.StatusOK, h.service.EvaluateInputs(c.Request.Context(), inputs, asOf))
}

// MonthlyReturns handles GET /api/v1/returns/monthly
func (h *ReturnHandlers) MonthlyReturns(c *gin.Context) {
	monthly, err := h.service.MonthlyReturns(c.Request.Context())
	if err != nil {
		respondAppError(c, h.logger, toAppError(err))
		return
	}

	resp := make([]MonthlyReturnResponse, 0, len(monthly))
	for _, m := range monthly {
		resp = append(resp, MonthlyReturnResponse{MonthlyReturn: m, Change: m.Change()})
	}

	c.JSON(http.StatusOK, gin.H{
		"monthly_returns": resp,
		"count":           len(resp),
	})
}

// resolveAsOf parses an optional as-of date, defaulting to now
func (h *ReturnHandlers) resolveAsOf(c *gin.Context, raw string) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return h.now().UTC(), true
	}
	asOf, err := parseDate(raw)
	if err != nil {
		respondBadRequest(c, "Invalid as_of date", map[string]interface{}{
			"as_of":    raw,
			"expected": dateLayout,
		})
		return time.Time{}, false
	}
	return asOf, true
}
