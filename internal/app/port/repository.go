package port

import (
	"context"

	"balance_aggregator/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BlockchainWalletRepository persists blockchain wallets.
type BlockchainWalletRepository interface {
	// Insert returns entity.ErrDuplicateWalletAddress when (userId, walletAddress) exists.
	Insert(ctx context.Context, wallet entity.BlockchainWallet) error
	// Update writes address, currency, description and balance of an owned wallet.
	Update(ctx context.Context, wallet entity.BlockchainWallet) error
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	// FindByID returns entity.ErrNotFound when the wallet is missing or not owned by userID.
	FindByID(ctx context.Context, userID string, id uuid.UUID) (*entity.BlockchainWallet, error)
	FindByUserID(ctx context.Context, userID string) ([]entity.BlockchainWallet, error)
	FindByUserIDAndCurrency(ctx context.Context, userID, currency string) ([]entity.BlockchainWallet, error)
	ExistsByUserIDAndAddress(ctx context.Context, userID, walletAddress string) (bool, error)
	DeleteByUserIDAndAddress(ctx context.Context, userID, walletAddress string) (bool, error)
	DeleteByUserIDAndID(ctx context.Context, userID string, id uuid.UUID) (bool, error)
	FindDistinctCurrencies(ctx context.Context) ([]string, error)
}

// ExchangeWalletRepository persists exchange wallet snapshots and their last refresh records.
type ExchangeWalletRepository interface {
	FindByUserID(ctx context.Context, userID string) ([]entity.ExchangeWallet, error)
	FindByUserIDAndCurrency(ctx context.Context, userID, currency string) ([]entity.ExchangeWallet, error)
	FindLastRefreshesByUserID(ctx context.Context, userID string) ([]entity.ExchangeWalletLastRefresh, error)
	// ReplaceUserWallets deletes every wallet and last refresh row of userID, then inserts the given ones.
	ReplaceUserWallets(ctx context.Context, userID string, wallets []entity.ExchangeWallet, refreshes []entity.ExchangeWalletLastRefresh) error
	FindDistinctCurrencies(ctx context.Context) ([]string, error)
}

// CurrencyAssetRepository persists manually entered currency assets.
type CurrencyAssetRepository interface {
	InsertAll(ctx context.Context, assets []entity.UserCurrencyAsset) error
	// Update returns false when no owned asset has the given id.
	Update(ctx context.Context, asset entity.UserCurrencyAsset) (bool, error)
	// FindByID returns entity.ErrNotFound when the asset is missing or not owned by userID.
	FindByID(ctx context.Context, userID string, id uuid.UUID) (*entity.UserCurrencyAsset, error)
	FindByUserID(ctx context.Context, userID string) ([]entity.UserCurrencyAsset, error)
	FindByUserIDAndCurrency(ctx context.Context, userID, currency string) ([]entity.UserCurrencyAsset, error)
	DeleteByUserIDAndID(ctx context.Context, userID string, id uuid.UUID) (bool, error)
}

// BalanceSummaryRepository answers aggregate queries across all balance sources.
type BalanceSummaryRepository interface {
	// FindUserCurrencies returns the distinct currencies of blockchain wallets,
	// exchange wallets and currency assets owned by userID.
	FindUserCurrencies(ctx context.Context, userID string) ([]string, error)
}
