package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/infrastructure/repository/memory"
	"balance_aggregator/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type summaryFixture struct {
	store    *memory.Store
	prices   *fixedPriceService
	mediator *mockMediatorClient
	exchange port.ExchangeWalletService
	service  port.BalanceSummaryService
}

func newSummaryFixture(t *testing.T, prices map[string]string) *summaryFixture {
	t.Helper()
	f := &summaryFixture{
		store:    memory.NewStore(),
		prices:   newFixedPriceService(prices),
		mediator: &mockMediatorClient{},
	}
	nop := logger.NewNopLogger()
	assets := NewCurrencyAssetService(f.store.CurrencyAssets(), f.prices, "USD", nop)
	f.exchange = NewExchangeWalletService(f.mediator, f.store.ExchangeWallets(), f.prices, "USD", nop)
	f.service = NewBalanceSummaryService(
		f.store.BalanceSummary(),
		f.store.BlockchainWallets(),
		f.store.ExchangeWallets(),
		assets,
		nil,
		f.exchange,
		f.prices,
		"USD",
		2,
		nop,
	)
	return f
}

func (f *summaryFixture) addWallet(t *testing.T, address, currency string, balance *decimal.Decimal) {
	t.Helper()
	w := entity.BlockchainWallet{ID: uuid.New(), UserID: "user-1", WalletAddress: address, Currency: currency}
	if balance != nil {
		w.Balance = decimal.NewNullDecimal(*balance)
	}
	require.NoError(t, f.store.BlockchainWallets().Insert(context.Background(), w))
}

func (f *summaryFixture) setExchangeBalances(t *testing.T, balances ...entity.ExchangeCurrencyBalance) {
	t.Helper()
	f.mediator.On("GetUserBalances", mock.Anything, "user-1").Return(binanceSnapshot(balances...), nil).Once()
	require.NoError(t, f.exchange.RefreshWalletBalances(context.Background(), "user-1"))
}

func (f *summaryFixture) addAsset(t *testing.T, currency, balance string) {
	t.Helper()
	require.NoError(t, f.store.CurrencyAssets().InsertAll(context.Background(), []entity.UserCurrencyAsset{{
		ID: uuid.New(), UserID: "user-1", Currency: currency, Balance: dec(balance),
	}}))
}

func summaryFor(t *testing.T, summaries []entity.CurrencyBalanceSummary, currency string) entity.CurrencyBalanceSummary {
	t.Helper()
	for _, s := range summaries {
		if s.Currency == currency {
			return s
		}
	}
	require.Failf(t, "missing summary", "no summary for %s", currency)
	return entity.CurrencyBalanceSummary{}
}

func TestBalanceSummaryService_NullWalletOffsetByExchange(t *testing.T) {
	f := newSummaryFixture(t, map[string]string{"ETH/USD": "100"})
	f.addWallet(t, "0xabc", "ETH", nil)
	f.setExchangeBalances(t, entity.ExchangeCurrencyBalance{CurrencyCode: "ETH", Amount: dec("20")})

	summaries, err := f.service.GetCurrencyBalanceSummary(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	eth := summaries[0]
	assert.Equal(t, "ETH", eth.Currency)
	require.True(t, eth.TotalBalance.Valid)
	assert.True(t, dec("20").Equal(eth.TotalBalance.Decimal))
	require.True(t, eth.ValueInUSD.Valid)
	assert.True(t, dec("2000").Equal(eth.ValueInUSD.Decimal))

	require.Len(t, eth.ExchangeBreakdown, 1)
	assert.Equal(t, "binance", eth.ExchangeBreakdown[0].ExchangeName)
	assert.True(t, dec("2000").Equal(eth.ExchangeBreakdown[0].ValueInUSD.Decimal))

	require.Len(t, eth.WalletBreakdown, 1)
	assert.False(t, eth.WalletBreakdown[0].Balance.Valid)
	assert.False(t, eth.WalletBreakdown[0].ValueInUSD.Valid, "null balance values to null, not zero")
}

func TestBalanceSummaryService_TotalBalance(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T, f *summaryFixture)
		wantTotal *decimal.Decimal
		wantValue *decimal.Decimal
	}{
		{
			name: "only never refreshed wallets",
			setup: func(t *testing.T, f *summaryFixture) {
				f.addWallet(t, "0xa", "ETH", nil)
				f.addWallet(t, "0xb", "ETH", nil)
			},
		},
		{
			name: "one refreshed wallet",
			setup: func(t *testing.T, f *summaryFixture) {
				f.addWallet(t, "0xa", "ETH", nil)
				f.addWallet(t, "0xb", "ETH", decPtr("1.25"))
			},
			wantTotal: decPtr("1.25"),
			wantValue: decPtr("125"),
		},
		{
			name: "currency asset clears null",
			setup: func(t *testing.T, f *summaryFixture) {
				f.addWallet(t, "0xa", "ETH", nil)
				f.addAsset(t, "ETH", "0.5")
			},
			wantTotal: decPtr("0.5"),
			wantValue: decPtr("50"),
		},
		{
			name: "zero exchange balance clears null",
			setup: func(t *testing.T, f *summaryFixture) {
				f.addWallet(t, "0xa", "ETH", nil)
				f.setExchangeBalances(t, entity.ExchangeCurrencyBalance{CurrencyCode: "ETH", Amount: decimal.Zero})
			},
			wantTotal: decPtr("0"),
			wantValue: decPtr("0"),
		},
		{
			name: "all sources",
			setup: func(t *testing.T, f *summaryFixture) {
				f.addWallet(t, "0xa", "ETH", decPtr("1"))
				f.addAsset(t, "ETH", "2")
				f.setExchangeBalances(t, entity.ExchangeCurrencyBalance{CurrencyCode: "ETH", Amount: dec("3")})
			},
			wantTotal: decPtr("6"),
			wantValue: decPtr("600"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSummaryFixture(t, map[string]string{"ETH/USD": "100"})
			tt.setup(t, f)

			summaries, err := f.service.GetCurrencyBalanceSummary(context.Background(), "user-1")
			require.NoError(t, err)
			eth := summaryFor(t, summaries, "ETH")

			if tt.wantTotal == nil {
				assert.False(t, eth.TotalBalance.Valid)
				assert.False(t, eth.ValueInUSD.Valid)
				return
			}
			require.True(t, eth.TotalBalance.Valid)
			assert.True(t, tt.wantTotal.Equal(eth.TotalBalance.Decimal), "total %s", eth.TotalBalance.Decimal)
			require.True(t, eth.ValueInUSD.Valid)
			assert.True(t, tt.wantValue.Equal(eth.ValueInUSD.Decimal), "value %s", eth.ValueInUSD.Decimal)
		})
	}
}

func TestBalanceSummaryService_OrderAndMissingPrice(t *testing.T) {
	f := newSummaryFixture(t, map[string]string{"ETH/USD": "100"})
	f.addWallet(t, "0xa", "ETH", decPtr("1"))
	f.addWallet(t, "bc1q", "BTC", decPtr("2"))
	f.addAsset(t, "ADA", "10")

	summaries, err := f.service.GetCurrencyBalanceSummary(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "ADA", summaries[0].Currency)
	assert.Equal(t, "BTC", summaries[1].Currency)
	assert.Equal(t, "ETH", summaries[2].Currency)

	btc := summaries[1]
	assert.True(t, dec("2").Equal(btc.TotalBalance.Decimal))
	assert.False(t, btc.PriceInUSD.Valid)
	assert.False(t, btc.ValueInUSD.Valid)

	ada := summaries[0]
	require.Len(t, ada.CurrencyAssetBreakdown, 1)
	assert.NotNil(t, ada.WalletBreakdown)
	assert.NotNil(t, ada.ExchangeBreakdown)
}

func TestBalanceSummaryService_ExchangeRefreshIsFullReplace(t *testing.T) {
	f := newSummaryFixture(t, nil)
	f.setExchangeBalances(t,
		entity.ExchangeCurrencyBalance{CurrencyCode: "ETH", Amount: dec("1")},
		entity.ExchangeCurrencyBalance{CurrencyCode: "SOL", Amount: dec("5")},
	)
	f.setExchangeBalances(t, entity.ExchangeCurrencyBalance{CurrencyCode: "ETH", Amount: dec("1")})

	summaries, err := f.service.GetCurrencyBalanceSummary(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "ETH", summaries[0].Currency)
}

func TestBalanceSummaryService_NoHoldings(t *testing.T) {
	f := newSummaryFixture(t, nil)
	summaries, err := f.service.GetCurrencyBalanceSummary(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

// barrierRefresher blocks until every refresher sharing the barrier has started.
type barrierRefresher struct {
	port.BlockchainWalletService
	port.ExchangeWalletService
	started *sync.WaitGroup
	err     error
}

func (r *barrierRefresher) RefreshWalletBalances(context.Context, string) error {
	r.started.Done()
	r.started.Wait()
	return r.err
}

func TestBalanceSummaryService_RefreshRunsBothConcurrently(t *testing.T) {
	var started sync.WaitGroup
	started.Add(2)
	blockchain := &barrierRefresher{started: &started, err: errors.New("rpc down")}
	exchange := &barrierRefresher{started: &started}

	svc := NewBalanceSummaryService(nil, nil, nil, nil, blockchain, exchange, nil, "USD", 1, logger.NewNopLogger())

	done := make(chan struct{})
	go func() {
		svc.RefreshBalanceSummary(context.Background(), "user-1")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refreshes did not run concurrently")
	}
}
