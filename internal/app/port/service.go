package port

import (
	"context"
	"time"

	"balance_aggregator/internal/domain/entity"

	"github.com/google/uuid"
)

// BlockchainWalletService manages tracked blockchain wallets of a user.
type BlockchainWalletService interface {
	AddWallet(ctx context.Context, userID string, wallet entity.NewBlockchainWallet) (entity.AddWalletResult, error)
	AddWallets(ctx context.Context, userID string, wallets []entity.NewBlockchainWallet) (entity.AddWalletsResult, error)
	UpdateWallet(ctx context.Context, userID string, update entity.BlockchainWalletUpdate) (entity.UpdateWalletResult, error)
	GetWallets(ctx context.Context, userID string) ([]entity.BlockchainWallet, error)
	// GetWallet returns nil when the wallet does not exist or is owned by someone else.
	GetWallet(ctx context.Context, userID string, id uuid.UUID) (*entity.BlockchainWallet, error)
	DeleteWalletByAddress(ctx context.Context, userID, walletAddress string) (bool, error)
	DeleteWalletByID(ctx context.Context, userID string, id uuid.UUID) (bool, error)
	RefreshWalletBalances(ctx context.Context, userID string) error
	SupportedCurrencies() []string
}

// ExchangeWalletService imports exchange balances through the mediator.
type ExchangeWalletService interface {
	RefreshWalletBalances(ctx context.Context, userID string) error
	GetWalletBalances(ctx context.Context, userID string) ([]entity.ExchangeUserWalletBalances, error)
}

// CurrencyAssetService manages manually entered currency assets.
type CurrencyAssetService interface {
	AddAssets(ctx context.Context, userID string, assets []entity.NewCurrencyAsset) ([]entity.UserCurrencyAsset, error)
	UpdateAsset(ctx context.Context, userID string, id uuid.UUID, asset entity.NewCurrencyAsset) (bool, error)
	DeleteAsset(ctx context.Context, userID string, id uuid.UUID) (bool, error)
	GetAssets(ctx context.Context, userID string) ([]entity.UserCurrencyAssetWithValue, error)
	GetAsset(ctx context.Context, userID string, id uuid.UUID) (*entity.UserCurrencyAssetWithValue, error)
	GetUserCurrencyAssets(ctx context.Context, userID, currency string) ([]entity.UserCurrencyAsset, error)
}

// BalanceSummaryService builds per-currency summaries over all balance sources.
type BalanceSummaryService interface {
	GetCurrencyBalanceSummary(ctx context.Context, userID string) ([]entity.CurrencyBalanceSummary, error)
	// RefreshBalanceSummary refreshes blockchain and exchange wallets concurrently.
	RefreshBalanceSummary(ctx context.Context, userID string)
}

// PriceRefreshScheduler keeps prices of held currencies warm.
type PriceRefreshScheduler interface {
	ScheduleRefreshing(interval time.Duration)
	Stop()
}
