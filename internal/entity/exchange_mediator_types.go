package entity

import "github.com/shopspring/decimal"

// MediatorAccountBalances is one exchange account in the mediator response of GET /users/{userId}/balances.
type MediatorAccountBalances struct {
	ExchangeUserID   string                     `json:"exchangeUserId"`
	ExchangeUserName string                     `json:"exchangeUserName"`
	ExchangeBalances []MediatorExchangeBalances `json:"exchangeBalances"`
}

// MediatorExchangeBalances lists the balances of one exchange. ErrorMessage is set
// when the mediator could not read that exchange.
type MediatorExchangeBalances struct {
	ExchangeName     string                    `json:"exchangeName"`
	ErrorMessage     *string                   `json:"errorMessage"`
	CurrencyBalances []MediatorCurrencyBalance `json:"currencyBalances"`
}

// MediatorCurrencyBalance carries amounts as JSON strings or numbers.
type MediatorCurrencyBalance struct {
	CurrencyCode    string          `json:"currencyCode"`
	Amount          decimal.Decimal `json:"amount"`
	AmountAvailable decimal.Decimal `json:"amountAvailable"`
	AmountInOrders  decimal.Decimal `json:"amountInOrders"`
}
