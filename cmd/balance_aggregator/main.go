package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/app/provider"
	"balance_aggregator/internal/app/service"
	"balance_aggregator/internal/client"
	"balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/infrastructure/configloader"
	"balance_aggregator/internal/infrastructure/metrics"
	clientprovider "balance_aggregator/internal/infrastructure/network/client"
	networkdefinition "balance_aggregator/internal/infrastructure/network/definition"
	"balance_aggregator/internal/infrastructure/repository/memory"
	"balance_aggregator/internal/infrastructure/repository/postgres"
	"balance_aggregator/internal/infrastructure/restapi"
	"balance_aggregator/internal/pkg/logger"
	"balance_aggregator/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// repositories bundles the storage backend selected by config.
type repositories struct {
	wallets         port.BlockchainWalletRepository
	exchangeWallets port.ExchangeWalletRepository
	currencyAssets  port.CurrencyAssetRepository
	summary         port.BalanceSummaryRepository
	ping            func(ctx context.Context) error
	close           func()
}

func main() {
	// .env is optional, real environment wins
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Warnf("Failed to load .env file: %v", err)
	}

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(cfg.Logging)
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger.InstallSlog(zapLogger)

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.MustRegisterMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, err := newRepositories(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repositories", zap.Error(err))
	}
	defer repos.close()

	netDefProvider, err := networkdefinition.NewNetworkDefinitionProvider(logger.Named("NetworkDefinitionProvider"), cfg.Blockchain)
	if err != nil {
		zapLogger.Fatal("Failed to resolve blockchain networks", zap.Error(err))
	}
	evmProvider := clientprovider.NewEVMClientProvider(cfg.Blockchain, zapLogger)
	defer evmProvider.Close()

	balanceClients, err := newBalanceClients(netDefProvider, evmProvider, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize blockchain clients", zap.Error(err))
	}
	registry, err := provider.NewBlockchainClientRegistry(balanceClients, logger.Named("BlockchainClientRegistry"))
	if err != nil {
		zapLogger.Fatal("Failed to build blockchain client registry", zap.Error(err))
	}

	counter := cfg.PriceService.CounterCurrency
	priceCache := service.NewPriceCache(
		client.NewPriceAPIClient(cfg.PriceService, zapLogger),
		logger.Named("PriceCache"),
		service.PriceCacheOptions{
			SuccessTTL:      time.Duration(cfg.PriceService.SuccessTTLMinutes) * time.Minute,
			FailureTTL:      time.Duration(cfg.PriceService.FailureTTLMinutes) * time.Minute,
			RefreshAfter:    time.Duration(cfg.PriceService.RefreshAfterMinutes) * time.Minute,
			CleanupInterval: time.Duration(cfg.PriceService.CleanupIntervalMinutes) * time.Minute,
		},
	)

	maxRoutines := cfg.Performance.MaxConcurrentRoutines
	blockchainWalletService := service.NewBlockchainWalletService(repos.wallets, registry, logger.Named("BlockchainWalletService"), maxRoutines)
	exchangeWalletService := service.NewExchangeWalletService(
		client.NewExchangeMediatorClient(cfg.ExchangeMediator, zapLogger),
		repos.exchangeWallets,
		priceCache,
		counter,
		logger.Named("ExchangeWalletService"),
	)
	currencyAssetService := service.NewCurrencyAssetService(repos.currencyAssets, priceCache, counter, logger.Named("CurrencyAssetService"))
	balanceSummaryService := service.NewBalanceSummaryService(
		repos.summary,
		repos.wallets,
		repos.exchangeWallets,
		currencyAssetService,
		blockchainWalletService,
		exchangeWalletService,
		priceCache,
		counter,
		maxRoutines,
		logger.Named("BalanceSummaryService"),
	)

	scheduler := service.NewPriceRefreshScheduler(priceCache, repos.wallets, repos.exchangeWallets, counter, maxRoutines, logger.Named("PriceRefreshScheduler"))
	scheduler.ScheduleRefreshing(time.Duration(cfg.PriceService.RefreshIntervalMinutes) * time.Minute)

	router := restapi.SetupRouter(restapi.Handlers{
		Balance:          restapi.NewBalanceHandler(balanceSummaryService, zapLogger),
		BlockchainWallet: restapi.NewBlockchainWalletHandler(blockchainWalletService, zapLogger),
		ExchangeWallet:   restapi.NewExchangeWalletHandler(exchangeWalletService, zapLogger),
		CurrencyAsset:    restapi.NewCurrencyAssetHandler(currencyAssetService, zapLogger),
		Price:            restapi.NewPriceHandler(priceCache, counter),
		Health:           restapi.NewHealthHandler(repos.ping),
	}, cfg, zapLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}

func newRepositories(ctx context.Context, cfg *configloader.Config, zapLogger *zap.Logger) (*repositories, error) {
	if cfg.Repository.UseInMemory {
		zapLogger.Warn("Using in-memory repositories, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			wallets:         store.BlockchainWallets(),
			exchangeWallets: store.ExchangeWallets(),
			currencyAssets:  store.CurrencyAssets(),
			summary:         store.BalanceSummary(),
			close:           func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.Database, zapLogger)
	if err != nil {
		return nil, err
	}
	if cfg.Database.ApplySchema {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		zapLogger.Info("Database schema ensured")
	}
	return &repositories{
		wallets:         postgres.NewBlockchainWalletRepository(pool),
		exchangeWallets: postgres.NewExchangeWalletRepository(pool, zapLogger),
		currencyAssets:  postgres.NewCurrencyAssetRepository(pool, zapLogger),
		summary:         postgres.NewBalanceSummaryRepository(pool),
		ping:            pool.Ping,
		close:           pool.Close,
	}, nil
}

// newBalanceClients creates one balance client per active network.
func newBalanceClients(
	netDefProvider *networkdefinition.NetworkDefinitionProvider,
	evmProvider *clientprovider.EVMClientProvider,
	cfg *configloader.Config,
	zapLogger *zap.Logger,
) ([]port.BlockchainBalanceClient, error) {
	var clients []port.BlockchainBalanceClient
	for _, def := range netDefProvider.GetAllNetworkDefinitions() {
		switch def.Kind {
		case entity.NetworkKindEVM:
			c, err := evmProvider.GetClient(def)
			if err != nil {
				return nil, err
			}
			clients = append(clients, c)
		case entity.NetworkKindBitcoin:
			clients = append(clients, client.NewBitcoinClient(cfg.Bitcoin, zapLogger))
		default:
			return nil, fmt.Errorf("unsupported network kind %q for %s", def.Kind, def.Currency)
		}
	}
	return clients, nil
}
