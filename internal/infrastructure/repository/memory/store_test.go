package memory

import (
	"context"
	"testing"

	"balance_aggregator/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWallet(userID, address, currency string) entity.BlockchainWallet {
	return entity.BlockchainWallet{ID: uuid.New(), UserID: userID, WalletAddress: address, Currency: currency}
}

func TestBlockchainWalletRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().BlockchainWallets()

	eth := newWallet("user-1", "0xa", "ETH")
	btc := newWallet("user-1", "bc1q", "BTC")
	require.NoError(t, repo.Insert(ctx, eth))
	require.NoError(t, repo.Insert(ctx, btc))
	require.NoError(t, repo.Insert(ctx, newWallet("user-2", "0xa", "ETH")), "addresses are unique per user only")

	t.Run("duplicate address", func(t *testing.T) {
		assert.ErrorIs(t, repo.Insert(ctx, newWallet("user-1", "0xa", "ETH")), entity.ErrDuplicateWalletAddress)

		moved := btc
		moved.WalletAddress = "0xa"
		assert.ErrorIs(t, repo.Update(ctx, moved), entity.ErrDuplicateWalletAddress)
	})

	t.Run("owner scoped lookup", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "user-2", eth.ID)
		assert.ErrorIs(t, err, entity.ErrNotFound)

		foreign := eth
		foreign.UserID = "user-2"
		assert.ErrorIs(t, repo.Update(ctx, foreign), entity.ErrNotFound)
	})

	t.Run("balance update", func(t *testing.T) {
		require.NoError(t, repo.UpdateBalance(ctx, eth.ID, decimal.RequireFromString("1.5")))
		got, err := repo.FindByID(ctx, "user-1", eth.ID)
		require.NoError(t, err)
		require.True(t, got.Balance.Valid)
		assert.Equal(t, "1.5", got.Balance.Decimal.String())

		assert.ErrorIs(t, repo.UpdateBalance(ctx, uuid.New(), decimal.Zero), entity.ErrNotFound)
	})

	t.Run("listings keep insertion order", func(t *testing.T) {
		wallets, err := repo.FindByUserID(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, wallets, 2)
		assert.Equal(t, eth.ID, wallets[0].ID)
		assert.Equal(t, btc.ID, wallets[1].ID)

		btcOnly, err := repo.FindByUserIDAndCurrency(ctx, "user-1", "BTC")
		require.NoError(t, err)
		assert.Len(t, btcOnly, 1)

		currencies, err := repo.FindDistinctCurrencies(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"BTC", "ETH"}, currencies)
	})

	t.Run("delete", func(t *testing.T) {
		deleted, err := repo.DeleteByUserIDAndAddress(ctx, "user-2", "bc1q")
		require.NoError(t, err)
		assert.False(t, deleted)

		deleted, err = repo.DeleteByUserIDAndAddress(ctx, "user-1", "bc1q")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteByUserIDAndID(ctx, "user-1", eth.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		exists, err := repo.ExistsByUserIDAndAddress(ctx, "user-1", "0xa")
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsByUserIDAndAddress(ctx, "user-2", "0xa")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestExchangeWalletRepository_ReplaceIsPerUser(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().ExchangeWallets()

	wallet := func(userID, currency string) entity.ExchangeWallet {
		return entity.ExchangeWallet{ID: uuid.New(), UserID: userID, Exchange: "binance", ExchangeUserID: "acc", Currency: currency}
	}
	refresh := func(userID string) entity.ExchangeWalletLastRefresh {
		return entity.ExchangeWalletLastRefresh{ID: uuid.New(), UserID: userID, Exchange: "binance", ExchangeUserID: "acc", InsertedAtMillis: 1}
	}

	require.NoError(t, repo.ReplaceUserWallets(ctx, "user-1",
		[]entity.ExchangeWallet{wallet("user-1", "ETH"), wallet("user-1", "ADA")},
		[]entity.ExchangeWalletLastRefresh{refresh("user-1")}))
	require.NoError(t, repo.ReplaceUserWallets(ctx, "user-2",
		[]entity.ExchangeWallet{wallet("user-2", "SOL")},
		[]entity.ExchangeWalletLastRefresh{refresh("user-2")}))

	require.NoError(t, repo.ReplaceUserWallets(ctx, "user-1", nil, nil))

	userOne, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.NotNil(t, userOne)
	assert.Empty(t, userOne)

	refreshes, err := repo.FindLastRefreshesByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, refreshes)

	userTwo, err := repo.FindByUserIDAndCurrency(ctx, "user-2", "SOL")
	require.NoError(t, err)
	assert.Len(t, userTwo, 1)

	currencies, err := repo.FindDistinctCurrencies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"SOL"}, currencies)
}

func TestCurrencyAssetRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().CurrencyAssets()

	first := entity.UserCurrencyAsset{ID: uuid.New(), UserID: "user-1", Currency: "ETH", Balance: decimal.NewFromInt(1)}
	second := entity.UserCurrencyAsset{ID: uuid.New(), UserID: "user-1", Currency: "BTC", Balance: decimal.NewFromInt(2)}
	require.NoError(t, repo.InsertAll(ctx, []entity.UserCurrencyAsset{first, second}))

	assets, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, first.ID, assets[0].ID)

	first.Balance = decimal.NewFromInt(3)
	updated, err := repo.Update(ctx, first)
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := repo.FindByID(ctx, "user-1", first.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3).Equal(got.Balance))

	_, err = repo.FindByID(ctx, "user-2", first.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	deleted, err := repo.DeleteByUserIDAndID(ctx, "user-1", second.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	btc, err := repo.FindByUserIDAndCurrency(ctx, "user-1", "BTC")
	require.NoError(t, err)
	assert.Empty(t, btc)
}

func TestBalanceSummaryRepository_FindUserCurrencies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.BlockchainWallets().Insert(ctx, newWallet("user-1", "0xa", "ETH")))
	require.NoError(t, store.BlockchainWallets().Insert(ctx, newWallet("user-2", "0xb", "MATIC")))
	require.NoError(t, store.ExchangeWallets().ReplaceUserWallets(ctx, "user-1", []entity.ExchangeWallet{
		{ID: uuid.New(), UserID: "user-1", Exchange: "kraken", ExchangeUserID: "acc", Currency: "ETH"},
		{ID: uuid.New(), UserID: "user-1", Exchange: "kraken", ExchangeUserID: "acc", Currency: "SOL"},
	}, nil))
	require.NoError(t, store.CurrencyAssets().InsertAll(ctx, []entity.UserCurrencyAsset{
		{ID: uuid.New(), UserID: "user-1", Currency: "ADA", Balance: decimal.NewFromInt(1)},
	}))

	currencies, err := store.BalanceSummary().FindUserCurrencies(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ADA", "ETH", "SOL"}, currencies)

	none, err := store.BalanceSummary().FindUserCurrencies(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
