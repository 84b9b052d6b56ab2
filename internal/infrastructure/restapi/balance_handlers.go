package restapi

import (
	"net/http"

	"balance_aggregator/internal/app/port"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BalanceHandler serves the per-currency balance summary.
type BalanceHandler struct {
	summaryService port.BalanceSummaryService
	logger         *zap.Logger
}

// NewBalanceHandler creates a new instance of BalanceHandler.
func NewBalanceHandler(summaryService port.BalanceSummaryService, logger *zap.Logger) *BalanceHandler {
	return &BalanceHandler{
		summaryService: summaryService,
		logger:         logger.Named("BalanceHandler"),
	}
}

// GetSummary handles GET /balance/summary.
func (h *BalanceHandler) GetSummary(c *gin.Context) {
	h.respondWithSummary(c, userID(c))
}

// RefreshSummary handles POST /balance/summary/refresh. Both wallet sources are
// refreshed before the summary is built.
func (h *BalanceHandler) RefreshSummary(c *gin.Context) {
	uid := userID(c)
	h.summaryService.RefreshBalanceSummary(c.Request.Context(), uid)
	h.respondWithSummary(c, uid)
}

func (h *BalanceHandler) respondWithSummary(c *gin.Context, uid string) {
	summaries, err := h.summaryService.GetCurrencyBalanceSummary(c.Request.Context(), uid)
	if err != nil {
		h.logger.Error("Failed to build balance summary", zap.String("userID", uid), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to build balance summary"})
		return
	}
	c.JSON(http.StatusOK, toSummaryDTOs(summaries))
}
