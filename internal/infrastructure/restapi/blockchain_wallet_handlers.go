package restapi

import (
	"net/http"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlockchainWalletHandler serves the tracked blockchain wallets of the caller.
type BlockchainWalletHandler struct {
	walletService port.BlockchainWalletService
	logger        *zap.Logger
}

// NewBlockchainWalletHandler creates a new instance of BlockchainWalletHandler.
func NewBlockchainWalletHandler(walletService port.BlockchainWalletService, logger *zap.Logger) *BlockchainWalletHandler {
	return &BlockchainWalletHandler{
		walletService: walletService,
		logger:        logger.Named("BlockchainWalletHandler"),
	}
}

// GetWallets handles GET /blockchain/wallets.
func (h *BlockchainWalletHandler) GetWallets(c *gin.Context) {
	wallets, err := h.walletService.GetWallets(c.Request.Context(), userID(c))
	if err != nil {
		h.internalError(c, "failed to list wallets", err)
		return
	}
	c.JSON(http.StatusOK, toWalletDTOs(wallets))
}

// GetWallet handles GET /blockchain/wallets/:id. Someone else's wallet is reported as missing.
func (h *BlockchainWalletHandler) GetWallet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "wallet not found"})
		return
	}
	wallet, err := h.walletService.GetWallet(c.Request.Context(), userID(c), id)
	if err != nil {
		h.internalError(c, "failed to get wallet", err)
		return
	}
	if wallet == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "wallet not found"})
		return
	}
	c.JSON(http.StatusOK, toWalletDTO(*wallet))
}

// AddWallets handles POST /blockchain/wallets. The batch is all or nothing.
func (h *BlockchainWalletHandler) AddWallets(c *gin.Context) {
	var req []AddBlockchainWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	wallets := make([]entity.NewBlockchainWallet, 0, len(req))
	for _, w := range req {
		wallets = append(wallets, entity.NewBlockchainWallet{
			WalletAddress: w.WalletAddress,
			Currency:      w.Currency,
			Description:   w.Description,
		})
	}

	result, err := h.walletService.AddWallets(c.Request.Context(), userID(c), wallets)
	if err != nil {
		h.internalError(c, "failed to add wallets", err)
		return
	}
	if !result.IsSuccessful() {
		c.JSON(http.StatusBadRequest, AddBlockchainWalletsErrorResponse{
			DuplicatedAddresses: result.DuplicatedAddresses,
			InvalidAddresses:    result.InvalidAddresses,
		})
		return
	}
	c.JSON(http.StatusOK, toWalletDTOs(result.Added))
}

// UpdateWallet handles PUT /blockchain/wallet.
func (h *BlockchainWalletHandler) UpdateWallet(c *gin.Context) {
	var req UpdateBlockchainWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, UpdateBlockchainWalletErrorResponse{IsIDInvalid: true})
		return
	}

	result, err := h.walletService.UpdateWallet(c.Request.Context(), userID(c), entity.BlockchainWalletUpdate{
		ID:            id,
		WalletAddress: req.WalletAddress,
		Currency:      req.Currency,
		Description:   req.Description,
	})
	if err != nil {
		h.internalError(c, "failed to update wallet", err)
		return
	}
	if !result.IsSuccessful() {
		c.JSON(http.StatusBadRequest, UpdateBlockchainWalletErrorResponse{
			IsAddressDuplicated: result.AlreadyExists,
			IsAddressInvalid:    result.InvalidAddress,
			IsIDInvalid:         result.NotFound,
		})
		return
	}
	c.JSON(http.StatusOK, toWalletDTO(*result.Wallet))
}

// DeleteWalletByAddress handles DELETE /blockchain/wallet/:address.
func (h *BlockchainWalletHandler) DeleteWalletByAddress(c *gin.Context) {
	deleted, err := h.walletService.DeleteWalletByAddress(c.Request.Context(), userID(c), c.Param("address"))
	if err != nil {
		h.internalError(c, "failed to delete wallet", err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "wallet not found"})
		return
	}
	c.Status(http.StatusOK)
}

// DeleteWalletByID handles DELETE /blockchain/wallets/:id.
func (h *BlockchainWalletHandler) DeleteWalletByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "wallet not found"})
		return
	}
	deleted, err := h.walletService.DeleteWalletByID(c.Request.Context(), userID(c), id)
	if err != nil {
		h.internalError(c, "failed to delete wallet", err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "wallet not found"})
		return
	}
	c.Status(http.StatusOK)
}

// RefreshBalances handles POST /blockchain/wallets/balance/refresh and returns the refreshed wallets.
func (h *BlockchainWalletHandler) RefreshBalances(c *gin.Context) {
	uid := userID(c)
	if err := h.walletService.RefreshWalletBalances(c.Request.Context(), uid); err != nil {
		h.internalError(c, "failed to refresh wallet balances", err)
		return
	}
	h.GetWallets(c)
}

// GetSupportedCurrencies handles GET /blockchain/currencies.
func (h *BlockchainWalletHandler) GetSupportedCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, h.walletService.SupportedCurrencies())
}

func (h *BlockchainWalletHandler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.String("userID", userID(c)), zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msg})
}
