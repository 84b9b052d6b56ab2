package restapi

import (
	"net/http"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CurrencyAssetHandler serves manually entered currency assets.
type CurrencyAssetHandler struct {
	assetService port.CurrencyAssetService
	logger       *zap.Logger
}

// NewCurrencyAssetHandler creates a new instance of CurrencyAssetHandler.
func NewCurrencyAssetHandler(assetService port.CurrencyAssetService, logger *zap.Logger) *CurrencyAssetHandler {
	return &CurrencyAssetHandler{
		assetService: assetService,
		logger:       logger.Named("CurrencyAssetHandler"),
	}
}

// GetAssets handles GET /currency/assets.
func (h *CurrencyAssetHandler) GetAssets(c *gin.Context) {
	assets, err := h.assetService.GetAssets(c.Request.Context(), userID(c))
	if err != nil {
		h.internalError(c, "failed to list currency assets", err)
		return
	}
	result := make([]CurrencyAssetDTO, 0, len(assets))
	for _, a := range assets {
		result = append(result, toAssetDTO(a))
	}
	c.JSON(http.StatusOK, result)
}

// GetAsset handles GET /currency/assets/:id.
func (h *CurrencyAssetHandler) GetAsset(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	asset, err := h.assetService.GetAsset(c.Request.Context(), userID(c), id)
	if err != nil {
		h.internalError(c, "failed to get currency asset", err)
		return
	}
	if asset == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "currency asset not found"})
		return
	}
	c.JSON(http.StatusOK, toAssetDTO(*asset))
}

// AddAssets handles POST /currency/assets. Any invalid entry rejects the batch.
func (h *CurrencyAssetHandler) AddAssets(c *gin.Context) {
	var req []CurrencyAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	assets := make([]entity.NewCurrencyAsset, 0, len(req))
	for _, r := range req {
		asset, ok := r.toNewAsset()
		if !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid currency asset: currency must be set and balance must be a decimal"})
			return
		}
		assets = append(assets, asset)
	}

	if _, err := h.assetService.AddAssets(c.Request.Context(), userID(c), assets); err != nil {
		h.internalError(c, "failed to add currency assets", err)
		return
	}
	// respond with the whole valued list, like the refresh endpoints do
	h.GetAssets(c)
}

// UpdateAsset handles PUT /currency/assets/:id.
func (h *CurrencyAssetHandler) UpdateAsset(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req CurrencyAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	asset, valid := req.toNewAsset()
	if !valid {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid currency asset: currency must be set and balance must be a decimal"})
		return
	}

	updated, err := h.assetService.UpdateAsset(c.Request.Context(), userID(c), id, asset)
	if err != nil {
		h.internalError(c, "failed to update currency asset", err)
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "currency asset not found"})
		return
	}
	c.Status(http.StatusOK)
}

// DeleteAsset handles DELETE /currency/assets/:id.
func (h *CurrencyAssetHandler) DeleteAsset(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	deleted, err := h.assetService.DeleteAsset(c.Request.Context(), userID(c), id)
	if err != nil {
		h.internalError(c, "failed to delete currency asset", err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "currency asset not found"})
		return
	}
	c.Status(http.StatusOK)
}

// parseID writes 404 for a malformed id, an asset with such id cannot exist.
func (h *CurrencyAssetHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "currency asset not found"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *CurrencyAssetHandler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.String("userID", userID(c)), zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msg})
}
