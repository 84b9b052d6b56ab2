package postgres

import (
	"context"

	"balance_aggregator/internal/app/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

type balanceSummaryRepository struct {
	pool *pgxpool.Pool
}

var _ port.BalanceSummaryRepository = (*balanceSummaryRepository)(nil)

// NewBalanceSummaryRepository creates the aggregate query repository.
func NewBalanceSummaryRepository(pool *pgxpool.Pool) port.BalanceSummaryRepository {
	return &balanceSummaryRepository{pool: pool}
}

func (r *balanceSummaryRepository) FindUserCurrencies(ctx context.Context, userID string) ([]string, error) {
	return queryStrings(ctx, r.pool, `
		SELECT currency FROM blockchain_wallet WHERE user_id = $1
		UNION
		SELECT currency FROM exchange_wallet WHERE user_id = $1
		UNION
		SELECT currency FROM user_currency_asset WHERE user_id = $1
		ORDER BY currency`, userID)
}
