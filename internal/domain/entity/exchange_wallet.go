package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeWallet is one imported balance row for (user, exchange account, exchange, currency).
type ExchangeWallet struct {
	ID              uuid.UUID       `json:"id"`
	UserID          string          `json:"userId"`
	Exchange        string          `json:"exchange"`
	ExchangeUserID  string          `json:"exchangeUserId"`
	Currency        string          `json:"currency"`
	Balance         decimal.Decimal `json:"balance"`
	AmountInOrders  decimal.Decimal `json:"amountInOrders"`
	AmountAvailable decimal.Decimal `json:"amountAvailable"`
}

// ExchangeWalletLastRefresh records one (exchange account, exchange) pair of a refresh cycle.
// A non-nil ErrorMessage means the mediator failed to read balances for that pair.
type ExchangeWalletLastRefresh struct {
	ID               uuid.UUID `json:"id"`
	UserID           string    `json:"userId"`
	Exchange         string    `json:"exchange"`
	ExchangeUserID   string    `json:"exchangeUserId"`
	ExchangeUserName string    `json:"exchangeUserName"`
	ErrorMessage     *string   `json:"errorMessage"`
	InsertedAtMillis int64     `json:"insertedAtMillis"`
}

// ExchangeAccountBalances is the mediator snapshot for a single exchange account.
type ExchangeAccountBalances struct {
	ExchangeUserID   string
	ExchangeUserName string
	ExchangeBalances []ExchangeBalance
}

// ExchangeBalance lists currency balances of one exchange within an account.
type ExchangeBalance struct {
	ExchangeName     string
	CurrencyBalances []ExchangeCurrencyBalance
	ErrorMessage     *string
}

// ExchangeCurrencyBalance is a single currency position reported by the mediator.
type ExchangeCurrencyBalance struct {
	CurrencyCode    string
	Amount          decimal.Decimal
	AmountAvailable decimal.Decimal
	AmountInOrders  decimal.Decimal
}

// ExchangeUserWalletBalances is the user-facing view of one exchange account.
type ExchangeUserWalletBalances struct {
	ExchangeUserID    string
	ExchangeUserName  string
	RefreshTimeMillis int64
	Exchanges         []ExchangeWalletBalances
}

// ExchangeWalletBalances groups the valued balances of one exchange.
type ExchangeWalletBalances struct {
	ExchangeName     string
	ErrorMessage     *string
	CurrencyBalances []ExchangeCurrencyValuedBalance
}

// ExchangeCurrencyValuedBalance is a stored exchange balance with its USD valuation.
type ExchangeCurrencyValuedBalance struct {
	CurrencyCode    string
	Balance         decimal.Decimal
	AmountAvailable decimal.Decimal
	AmountInOrders  decimal.Decimal
	PriceInUSD      decimal.NullDecimal
	ValueInUSD      decimal.NullDecimal
}
