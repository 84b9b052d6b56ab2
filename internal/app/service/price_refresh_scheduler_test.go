package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/infrastructure/repository/memory"
	"balance_aggregator/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyWalletRepository fails as many currency listings as failures is set to.
type flakyWalletRepository struct {
	port.BlockchainWalletRepository
	failures atomic.Int32
	calls    atomic.Int32
}

func (r *flakyWalletRepository) FindDistinctCurrencies(ctx context.Context) ([]string, error) {
	r.calls.Add(1)
	if r.failures.Add(-1) >= 0 {
		return nil, errors.New("database unavailable")
	}
	return r.BlockchainWalletRepository.FindDistinctCurrencies(ctx)
}

func seedHeldCurrencies(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.BlockchainWallets().Insert(ctx, entity.BlockchainWallet{
		ID: uuid.New(), UserID: "user-1", WalletAddress: "0xabc", Currency: "ETH",
	}))
	require.NoError(t, store.BlockchainWallets().Insert(ctx, entity.BlockchainWallet{
		ID: uuid.New(), UserID: "user-2", WalletAddress: "bc1qxyz", Currency: "BTC",
	}))
	require.NoError(t, store.ExchangeWallets().ReplaceUserWallets(ctx, "user-1", []entity.ExchangeWallet{
		{ID: uuid.New(), UserID: "user-1", Exchange: "binance", ExchangeUserID: "acc-1", Currency: "ETH", Balance: dec("1")},
		{ID: uuid.New(), UserID: "user-1", Exchange: "binance", ExchangeUserID: "acc-1", Currency: "ADA", Balance: dec("100")},
	}, nil))
}

func TestPriceRefreshScheduler_RefreshesAllHeldCurrenciesImmediately(t *testing.T) {
	store := memory.NewStore()
	seedHeldCurrencies(t, store)
	prices := newFixedPriceService(nil)

	scheduler := NewPriceRefreshScheduler(prices, store.BlockchainWallets(), store.ExchangeWallets(), "USD", 2, logger.NewNopLogger())
	scheduler.ScheduleRefreshing(time.Hour)
	defer scheduler.Stop()

	require.Eventually(t, func() bool { return len(prices.refreshedPairs()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"ADA/USD", "BTC/USD", "ETH/USD"}, prices.refreshedPairs())
}

func TestPriceRefreshScheduler_FailedCycleDoesNotStopSchedule(t *testing.T) {
	store := memory.NewStore()
	seedHeldCurrencies(t, store)
	prices := newFixedPriceService(nil)

	walletRepo := &flakyWalletRepository{BlockchainWalletRepository: store.BlockchainWallets()}
	walletRepo.failures.Store(2)

	scheduler := NewPriceRefreshScheduler(prices, walletRepo, store.ExchangeWallets(), "USD", 0, logger.NewNopLogger())
	scheduler.ScheduleRefreshing(10 * time.Millisecond)
	defer scheduler.Stop()

	require.Eventually(t, func() bool { return len(prices.refreshedPairs()) >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, walletRepo.calls.Load(), int32(3))
	assert.Contains(t, prices.refreshedPairs(), "BTC/USD")
}

func TestPriceRefreshScheduler_StopHaltsCycles(t *testing.T) {
	store := memory.NewStore()
	seedHeldCurrencies(t, store)
	prices := newFixedPriceService(nil)

	scheduler := NewPriceRefreshScheduler(prices, store.BlockchainWallets(), store.ExchangeWallets(), "USD", 1, logger.NewNopLogger())
	scheduler.ScheduleRefreshing(5 * time.Millisecond)

	require.Eventually(t, func() bool { return len(prices.refreshedPairs()) >= 3 }, time.Second, 5*time.Millisecond)
	scheduler.Stop()
	scheduler.Stop()

	afterStop := len(prices.refreshedPairs())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, afterStop, len(prices.refreshedPairs()))
}
