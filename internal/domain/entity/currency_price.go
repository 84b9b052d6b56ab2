package entity

import "github.com/shopspring/decimal"

// CurrencyPrice is the exchange rate BaseCurrency->CounterCurrency at AsOfMillis.
type CurrencyPrice struct {
	Price           decimal.Decimal `json:"price"`
	BaseCurrency    string          `json:"baseCurrency"`
	CounterCurrency string          `json:"counterCurrency"`
	AsOfMillis      int64           `json:"asOfMillis"`
}

// ValueOf returns amount expressed in the counter currency.
func (p *CurrencyPrice) ValueOf(amount decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(amount.Mul(p.Price))
}

// PriceOrNull returns the price as a nullable decimal, invalid when p is nil.
func (p *CurrencyPrice) PriceOrNull() decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(p.Price)
}
