package port

import (
	"context"

	"balance_aggregator/internal/domain/entity"
)

// ExchangeMediatorClient reads the balances a user holds on connected exchanges.
type ExchangeMediatorClient interface {
	GetUserBalances(ctx context.Context, userID string) ([]entity.ExchangeAccountBalances, error)
}
