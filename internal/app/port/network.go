package port

import (
	"context"

	"github.com/shopspring/decimal"
)

// BlockchainBalanceClient fetches the native balance of an address for one currency.
// A nil balance with a nil error means the node returned no result for the address.
type BlockchainBalanceClient interface {
	Currency() string
	GetBalance(ctx context.Context, walletAddress string) (*decimal.Decimal, error)
	IsValidAddress(walletAddress string) bool
}

// BlockchainClientRegistry maps currency codes to balance clients.
type BlockchainClientRegistry interface {
	// Client returns entity.ErrNoBlockchainClient for an unregistered currency.
	Client(currency string) (BlockchainBalanceClient, error)
	IsSupported(currency string) bool
	SupportedCurrencies() []string
}
