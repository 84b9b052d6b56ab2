package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserCurrencyAsset is a manually entered balance, never refreshed automatically.
type UserCurrencyAsset struct {
	ID          uuid.UUID       `json:"id"`
	UserID      string          `json:"userId"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	Description *string         `json:"description"`
}

// NewCurrencyAsset holds user input for adding or updating an asset.
type NewCurrencyAsset struct {
	Currency    string
	Balance     decimal.Decimal
	Description *string
}

// UserCurrencyAssetWithValue is an asset valued in USD.
type UserCurrencyAssetWithValue struct {
	UserCurrencyAsset
	PriceInUSD decimal.NullDecimal
	ValueInUSD decimal.NullDecimal
}
