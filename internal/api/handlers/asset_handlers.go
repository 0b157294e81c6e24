package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
	"github.com/pfinance/pfinance_service/pkg/logger"
	"github.com/pfinance/pfinance_service/pkg/pagination"
)

// AssetPayload is the request shape of an asset. Type-specific rules are
// enforced by the domain conversion, the tags only catch malformed input.
type AssetPayload struct {
	ID                   *uuid.UUID          `json:"id"`
	Type                 entities.AssetType  `json:"type" binding:"required"`
	Name                 string              `json:"name" binding:"required,max=255"`
	Ticker               *string             `json:"ticker" binding:"omitempty,max=32"`
	Price                decimal.NullDecimal `json:"price"`
	Amount               decimal.Decimal     `json:"amount"`
	Currency             string              `json:"currency" binding:"required,len=3,alpha"`
	InterestRate         decimal.NullDecimal `json:"interest_rate"`
	CompoundingFrequency *string             `json:"compounding_frequency"`
	InterestStart        *string             `json:"interest_start"`
}

// ToRecord converts the payload into an asset record. When interest_start does
// not parse the record is still returned, without a start date, alongside an
// error wrapping entities.ErrInvalidAccrualInput.
func (p AssetPayload) ToRecord() (entities.AssetRecord, error) {
	record := entities.AssetRecord{
		Type:         p.Type,
		Name:         p.Name,
		Ticker:       p.Ticker,
		Price:        p.Price,
		Amount:       p.Amount,
		Currency:     p.Currency,
		InterestRate: p.InterestRate,
	}
	if p.ID != nil {
		record.ID = *p.ID
	}
	if p.CompoundingFrequency != nil {
		freq := entities.CompoundingFrequency(strings.ToLower(strings.TrimSpace(*p.CompoundingFrequency)))
		record.CompoundingFrequency = &freq
	}
	if p.InterestStart != nil && strings.TrimSpace(*p.InterestStart) != "" {
		start, err := parseDate(*p.InterestStart)
		if err != nil {
			return record, fmt.Errorf("%w: interest_start %q is not a valid date", entities.ErrInvalidAccrualInput, *p.InterestStart)
		}
		record.InterestStart = &start
	}
	return record, nil
}

type AssetHandlers struct {
	service PortfolioService
	logger  *logger.Logger
}

func NewAssetHandlers(service PortfolioService, logger *logger.Logger) *AssetHandlers {
	return &AssetHandlers{
		service: service,
		logger:  logger,
	}
}

// CreateAsset handles POST /api/v1/assets
func (h *AssetHandlers) CreateAsset(c *gin.Context) {
	var req AssetPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid asset payload", bindingDetails(err))
		return
	}

	record, err := req.ToRecord()
	if err != nil {
		respondBadRequest(c, "Invalid asset payload", map[string]interface{}{"error": err.Error()})
		return
	}

	created, err := h.service.CreateAsset(c.Request.Context(), record)
	if err != nil {
		respondAppError(c, h.logger, toAppError(err))
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListAssets handles GET /api/v1/assets with optional ?type=, ?page= and ?page_size=
func (h *AssetHandlers) ListAssets(c *gin.Context) {
	assetType := entities.AssetType(strings.TrimSpace(c.Query("type")))

	assets, err := h.service.ListAssets(c.Request.Context(), assetType)
	if err != nil {
		respondAppError(c, h.logger, toAppError(err))
		return
	}
	if assets == nil {
		assets = []*entities.AssetRecord{}
	}

	page, info := pagination.Slice(assets, pagination.FromQuery(c.Query("page"), c.Query("page_size")))

	c.JSON(http.StatusOK, gin.H{
		"assets": page,
		"count":  len(page),
		"page":   info,
	})
}

// GetAsset handles GET /api/v1/assets/:id
func (h *AssetHandlers) GetAsset(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	asset, err := h.service.GetAsset(c.Request.Context(), id)
	if err != nil {
		respondAppError(c, h.logger, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, asset)
}

// DeleteAsset handles DELETE /api/v1/assets/:id
func (h *AssetHandlers) DeleteAsset(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAsset(c.Request.Context(), id); err != nil {
		respondAppError(c, h.logger, toAppError(err))
		return
	}

	c.Status(http.StatusNoContent)
}

func parseAssetID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid asset ID", map[string]interface{}{"id": c.Param("id")})
		return uuid.Nil, false
	}
	return id, true
}
