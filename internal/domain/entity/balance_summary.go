package entity

import "github.com/shopspring/decimal"

// CurrencyBalanceSummary merges every balance source of a user for one currency.
type CurrencyBalanceSummary struct {
	Currency               string
	TotalBalance           decimal.NullDecimal
	PriceInUSD             decimal.NullDecimal
	ValueInUSD             decimal.NullDecimal
	ExchangeBreakdown      []ExchangeCurrencySummary
	WalletBreakdown        []BlockchainWalletCurrencySummary
	CurrencyAssetBreakdown []CurrencyAssetSummary
}

// ExchangeCurrencySummary is a single exchange wallet contribution.
type ExchangeCurrencySummary struct {
	ExchangeName   string
	ExchangeUserID string
	Balance        decimal.Decimal
	ValueInUSD     decimal.NullDecimal
}

// BlockchainWalletCurrencySummary is a single blockchain wallet contribution.
type BlockchainWalletCurrencySummary struct {
	WalletAddress string
	Description   *string
	Balance       decimal.NullDecimal
	ValueInUSD    decimal.NullDecimal
}

// CurrencyAssetSummary is a single currency asset contribution.
type CurrencyAssetSummary struct {
	Description *string
	Balance     decimal.Decimal
	ValueInUSD  decimal.NullDecimal
}
