package port

import (
	"context"

	"balance_aggregator/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// PriceSource is the raw price lookup behind the cache.
// A nil price with a nil error means the source knows no price for the pair.
type PriceSource interface {
	GetPrice(ctx context.Context, baseCurrency, counterCurrency string) (*entity.CurrencyPrice, error)
}

// PriceService answers price queries. It never returns errors: nil or an invalid
// decimal means the price is unknown.
type PriceService interface {
	GetPrice(ctx context.Context, baseCurrency, counterCurrency string) *entity.CurrencyPrice
	GetValue(ctx context.Context, baseCurrency, counterCurrency string, amount decimal.Decimal) decimal.NullDecimal
	// RefreshPrice refetches the pair regardless of its remaining TTL.
	RefreshPrice(ctx context.Context, baseCurrency, counterCurrency string)
}
