package restapi

import (
	"net/http"

	"balance_aggregator/internal/app/port"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExchangeWalletHandler serves balances imported from the exchange mediator.
type ExchangeWalletHandler struct {
	walletService port.ExchangeWalletService
	logger        *zap.Logger
}

// NewExchangeWalletHandler creates a new instance of ExchangeWalletHandler.
func NewExchangeWalletHandler(walletService port.ExchangeWalletService, logger *zap.Logger) *ExchangeWalletHandler {
	return &ExchangeWalletHandler{
		walletService: walletService,
		logger:        logger.Named("ExchangeWalletHandler"),
	}
}

// GetBalances handles GET /exchange/wallets.
func (h *ExchangeWalletHandler) GetBalances(c *gin.Context) {
	accounts, err := h.walletService.GetWalletBalances(c.Request.Context(), userID(c))
	if err != nil {
		h.logger.Error("Failed to list exchange balances", zap.String("userID", userID(c)), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list exchange balances"})
		return
	}
	c.JSON(http.StatusOK, toExchangeBalancesDTOs(accounts))
}

// RefreshBalances handles POST /exchange/wallets/balance/refresh.
func (h *ExchangeWalletHandler) RefreshBalances(c *gin.Context) {
	if err := h.walletService.RefreshWalletBalances(c.Request.Context(), userID(c)); err != nil {
		h.logger.Error("Failed to refresh exchange balances", zap.String("userID", userID(c)), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to refresh exchange balances"})
		return
	}
	h.GetBalances(c)
}
