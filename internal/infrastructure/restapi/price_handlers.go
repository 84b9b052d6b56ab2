package restapi

import (
	"context"
	"net/http"
	"strings"

	"balance_aggregator/internal/app/port"

	"github.com/gin-gonic/gin"
)

// PriceHandler exposes cached prices.
type PriceHandler struct {
	priceService    port.PriceService
	counterCurrency string
}

// NewPriceHandler creates a new instance of PriceHandler.
func NewPriceHandler(priceService port.PriceService, counterCurrency string) *PriceHandler {
	return &PriceHandler{priceService: priceService, counterCurrency: counterCurrency}
}

// GetPrice handles GET /prices/:currency?counter=USD.
func (h *PriceHandler) GetPrice(c *gin.Context) {
	base := strings.ToUpper(c.Param("currency"))
	counter := strings.ToUpper(c.DefaultQuery("counter", h.counterCurrency))

	price := h.priceService.GetPrice(c.Request.Context(), base, counter)
	if price == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "price not available for " + base + "/" + counter})
		return
	}
	c.JSON(http.StatusOK, CurrencyPriceDTO{
		BaseCurrency:    price.BaseCurrency,
		CounterCurrency: price.CounterCurrency,
		Price:           price.Price.String(),
		AsOfMillis:      price.AsOfMillis,
	})
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthHandler reports whether the storage backend is reachable.
type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler creates a health handler. A nil ping always reports ok.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
