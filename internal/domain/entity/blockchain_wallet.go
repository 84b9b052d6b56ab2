package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BlockchainWallet is a tracked on-chain address with its last known balance.
// Balance is invalid (null) until the wallet is refreshed for the first time.
type BlockchainWallet struct {
	ID            uuid.UUID           `json:"id"`
	UserID        string              `json:"userId"`
	WalletAddress string              `json:"walletAddress"`
	Currency      string              `json:"currency"`
	Balance       decimal.NullDecimal `json:"balance"`
	Description   *string             `json:"description"`
}

// NewBlockchainWallet holds user input for adding a wallet.
type NewBlockchainWallet struct {
	WalletAddress string
	Currency      string
	Description   *string
}

// BlockchainWalletUpdate holds user input for updating an existing wallet.
type BlockchainWalletUpdate struct {
	ID            uuid.UUID
	WalletAddress string
	Currency      string
	Description   *string
}

// AddWalletResult is the outcome of adding a single wallet.
type AddWalletResult struct {
	AlreadyExists bool
	Wallet        *BlockchainWallet
}

// AddWalletsResult is the outcome of a batch add. Nothing is persisted unless
// both lists are empty.
type AddWalletsResult struct {
	DuplicatedAddresses []string
	InvalidAddresses    []string
	Added               []BlockchainWallet
}

// IsSuccessful reports whether every wallet of the batch was accepted.
func (r AddWalletsResult) IsSuccessful() bool {
	return len(r.DuplicatedAddresses) == 0 && len(r.InvalidAddresses) == 0
}

// UpdateWalletResult is the outcome of a wallet update.
type UpdateWalletResult struct {
	NotFound       bool
	AlreadyExists  bool
	InvalidAddress bool
	Wallet         *BlockchainWallet
}

// IsSuccessful reports whether the update was applied.
func (r UpdateWalletResult) IsSuccessful() bool {
	return !r.NotFound && !r.AlreadyExists && !r.InvalidAddress
}
