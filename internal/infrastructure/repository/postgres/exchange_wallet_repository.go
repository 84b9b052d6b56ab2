package postgres

import (
	"context"
	"fmt"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	exchangeWalletColumns = `id, user_id, exchange, exchange_user_id, currency, balance, amount_in_orders, amount_available`
	lastRefreshColumns    = `id, user_id, exchange, exchange_user_id, exchange_user_name, error_message, inserted_at`
)

type exchangeWalletRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ port.ExchangeWalletRepository = (*exchangeWalletRepository)(nil)

// NewExchangeWalletRepository creates a repository over exchange_wallet and exchange_wallet_last_refresh.
func NewExchangeWalletRepository(pool *pgxpool.Pool, logger *zap.Logger) port.ExchangeWalletRepository {
	return &exchangeWalletRepository{pool: pool, logger: logger.Named("ExchangeWalletRepository")}
}

func (r *exchangeWalletRepository) queryWallets(ctx context.Context, sql string, args ...any) ([]entity.ExchangeWallet, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query exchange wallets: %w", err)
	}
	defer rows.Close()

	wallets := make([]entity.ExchangeWallet, 0)
	for rows.Next() {
		var w entity.ExchangeWallet
		if err := rows.Scan(&w.ID, &w.UserID, &w.Exchange, &w.ExchangeUserID, &w.Currency,
			&w.Balance, &w.AmountInOrders, &w.AmountAvailable); err != nil {
			return nil, fmt.Errorf("scan exchange wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func (r *exchangeWalletRepository) FindByUserID(ctx context.Context, userID string) ([]entity.ExchangeWallet, error) {
	return r.queryWallets(ctx,
		`SELECT `+exchangeWalletColumns+` FROM exchange_wallet WHERE user_id = $1 ORDER BY exchange_user_id, exchange, currency`, userID)
}

func (r *exchangeWalletRepository) FindByUserIDAndCurrency(ctx context.Context, userID, currency string) ([]entity.ExchangeWallet, error) {
	return r.queryWallets(ctx,
		`SELECT `+exchangeWalletColumns+` FROM exchange_wallet WHERE user_id = $1 AND currency = $2 ORDER BY exchange_user_id, exchange`,
		userID, currency)
}

func (r *exchangeWalletRepository) FindLastRefreshesByUserID(ctx context.Context, userID string) ([]entity.ExchangeWalletLastRefresh, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+lastRefreshColumns+` FROM exchange_wallet_last_refresh WHERE user_id = $1 ORDER BY exchange_user_id, exchange`, userID)
	if err != nil {
		return nil, fmt.Errorf("query exchange refreshes: %w", err)
	}
	defer rows.Close()

	refreshes := make([]entity.ExchangeWalletLastRefresh, 0)
	for rows.Next() {
		var lr entity.ExchangeWalletLastRefresh
		if err := rows.Scan(&lr.ID, &lr.UserID, &lr.Exchange, &lr.ExchangeUserID, &lr.ExchangeUserName,
			&lr.ErrorMessage, &lr.InsertedAtMillis); err != nil {
			return nil, fmt.Errorf("scan exchange refresh: %w", err)
		}
		refreshes = append(refreshes, lr)
	}
	return refreshes, rows.Err()
}

// ReplaceUserWallets swaps the whole snapshot of userID in one transaction.
func (r *exchangeWalletRepository) ReplaceUserWallets(ctx context.Context, userID string, wallets []entity.ExchangeWallet, refreshes []entity.ExchangeWalletLastRefresh) error {
	return WithTransaction(ctx, r.pool, r.logger, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM exchange_wallet WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete exchange wallets: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM exchange_wallet_last_refresh WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete exchange refreshes: %w", err)
		}

		batch := &pgx.Batch{}
		for _, w := range wallets {
			batch.Queue(`INSERT INTO exchange_wallet (`+exchangeWalletColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				w.ID, userID, w.Exchange, w.ExchangeUserID, w.Currency, w.Balance, w.AmountInOrders, w.AmountAvailable)
		}
		for _, lr := range refreshes {
			batch.Queue(`INSERT INTO exchange_wallet_last_refresh (`+lastRefreshColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				lr.ID, userID, lr.Exchange, lr.ExchangeUserID, lr.ExchangeUserName, lr.ErrorMessage, lr.InsertedAtMillis)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert exchange snapshot: %w", err)
		}
		return nil
	})
}

func (r *exchangeWalletRepository) FindDistinctCurrencies(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, r.pool, `SELECT DISTINCT currency FROM exchange_wallet ORDER BY currency`)
}
