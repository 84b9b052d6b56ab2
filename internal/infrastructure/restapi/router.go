package restapi

import (
	"net/http"
	"net/http/pprof"

	"balance_aggregator/internal/infrastructure/configloader"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Balance          *BalanceHandler
	BlockchainWallet *BlockchainWalletHandler
	ExchangeWallet   *ExchangeWalletHandler
	CurrencyAsset    *CurrencyAssetHandler
	Price            *PriceHandler
	Health           *HealthHandler
}

// SetupRouter настраивает и возвращает экземпляр Gin роутера.
func SetupRouter(h Handlers, cfg *configloader.Config, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))
	router.Use(RequestLogger(logger))
	router.Use(gin.Recovery())

	router.GET("/health", h.Health.Health)

	api := router.Group("/")
	api.Use(Authenticate(cfg.Auth, logger))
	{
		api.GET("/balance/summary", h.Balance.GetSummary)
		api.POST("/balance/summary/refresh", h.Balance.RefreshSummary)

		api.GET("/blockchain/currencies", h.BlockchainWallet.GetSupportedCurrencies)
		api.GET("/blockchain/wallets", h.BlockchainWallet.GetWallets)
		api.POST("/blockchain/wallets", h.BlockchainWallet.AddWallets)
		api.GET("/blockchain/wallets/:id", h.BlockchainWallet.GetWallet)
		api.DELETE("/blockchain/wallets/:id", h.BlockchainWallet.DeleteWalletByID)
		api.POST("/blockchain/wallets/balance/refresh", h.BlockchainWallet.RefreshBalances)
		api.PUT("/blockchain/wallet", h.BlockchainWallet.UpdateWallet)
		api.DELETE("/blockchain/wallet/:address", h.BlockchainWallet.DeleteWalletByAddress)

		api.GET("/exchange/wallets", h.ExchangeWallet.GetBalances)
		api.POST("/exchange/wallets/balance/refresh", h.ExchangeWallet.RefreshBalances)

		api.GET("/currency/assets", h.CurrencyAsset.GetAssets)
		api.POST("/currency/assets", h.CurrencyAsset.AddAssets)
		api.GET("/currency/assets/:id", h.CurrencyAsset.GetAsset)
		api.PUT("/currency/assets/:id", h.CurrencyAsset.UpdateAsset)
		api.DELETE("/currency/assets/:id", h.CurrencyAsset.DeleteAsset)

		api.GET("/prices/:currency", h.Price.GetPrice)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Make sure to protect these in a production environment
	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}

	if cfg.Swagger.Enabled {
		// swagger.yaml лежит в docs/ и отдается как статический файл
		router.StaticFile("/docs/swagger.yaml", "./docs/swagger.yaml")
		swaggerURL := ginSwagger.URL("/docs/swagger.yaml")
		router.GET(cfg.Swagger.Path+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, swaggerURL))
		logger.Info("Swagger UI enabled", zap.String("path", cfg.Swagger.Path+"/index.html"))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "route not found"})
	})

	return router
}
