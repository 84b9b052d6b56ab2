package postgres

import (
	"context"
	"fmt"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const blockchainWalletColumns = `id, user_id, wallet_address, currency, balance, description`

type blockchainWalletRepository struct {
	pool *pgxpool.Pool
}

var _ port.BlockchainWalletRepository = (*blockchainWalletRepository)(nil)

// NewBlockchainWalletRepository creates a blockchain_wallet repository.
func NewBlockchainWalletRepository(pool *pgxpool.Pool) port.BlockchainWalletRepository {
	return &blockchainWalletRepository{pool: pool}
}

func scanBlockchainWallet(row pgx.Row) (entity.BlockchainWallet, error) {
	var w entity.BlockchainWallet
	err := row.Scan(&w.ID, &w.UserID, &w.WalletAddress, &w.Currency, &w.Balance, &w.Description)
	return w, err
}

func (r *blockchainWalletRepository) Insert(ctx context.Context, wallet entity.BlockchainWallet) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO blockchain_wallet (`+blockchainWalletColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		wallet.ID, wallet.UserID, wallet.WalletAddress, wallet.Currency, wallet.Balance, wallet.Description)
	if err != nil {
		return fmt.Errorf("insert blockchain wallet: %w", mapError(err))
	}
	return nil
}

func (r *blockchainWalletRepository) Update(ctx context.Context, wallet entity.BlockchainWallet) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE blockchain_wallet
		    SET wallet_address = $3, currency = $4, balance = $5, description = $6
		  WHERE id = $1 AND user_id = $2`,
		wallet.ID, wallet.UserID, wallet.WalletAddress, wallet.Currency, wallet.Balance, wallet.Description)
	if err != nil {
		return fmt.Errorf("update blockchain wallet: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *blockchainWalletRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	tag, err := r.pool.Exec(ctx, `UPDATE blockchain_wallet SET balance = $2 WHERE id = $1`, id, balance)
	if err != nil {
		return fmt.Errorf("update blockchain wallet balance: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *blockchainWalletRepository) FindByID(ctx context.Context, userID string, id uuid.UUID) (*entity.BlockchainWallet, error) {
	w, err := scanBlockchainWallet(r.pool.QueryRow(ctx,
		`SELECT `+blockchainWalletColumns+` FROM blockchain_wallet WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, mapError(err)
	}
	return &w, nil
}

func (r *blockchainWalletRepository) query(ctx context.Context, sql string, args ...any) ([]entity.BlockchainWallet, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query blockchain wallets: %w", err)
	}
	defer rows.Close()

	wallets := make([]entity.BlockchainWallet, 0)
	for rows.Next() {
		w, err := scanBlockchainWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blockchain wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func (r *blockchainWalletRepository) FindByUserID(ctx context.Context, userID string) ([]entity.BlockchainWallet, error) {
	return r.query(ctx,
		`SELECT `+blockchainWalletColumns+` FROM blockchain_wallet WHERE user_id = $1 ORDER BY currency, wallet_address`, userID)
}

func (r *blockchainWalletRepository) FindByUserIDAndCurrency(ctx context.Context, userID, currency string) ([]entity.BlockchainWallet, error) {
	return r.query(ctx,
		`SELECT `+blockchainWalletColumns+` FROM blockchain_wallet WHERE user_id = $1 AND currency = $2 ORDER BY wallet_address`,
		userID, currency)
}

func (r *blockchainWalletRepository) ExistsByUserIDAndAddress(ctx context.Context, userID, walletAddress string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM blockchain_wallet WHERE user_id = $1 AND wallet_address = $2)`,
		userID, walletAddress).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check blockchain wallet address: %w", err)
	}
	return exists, nil
}

func (r *blockchainWalletRepository) DeleteByUserIDAndAddress(ctx context.Context, userID, walletAddress string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blockchain_wallet WHERE user_id = $1 AND wallet_address = $2`, userID, walletAddress)
	if err != nil {
		return false, fmt.Errorf("delete blockchain wallet: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *blockchainWalletRepository) DeleteByUserIDAndID(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blockchain_wallet WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return false, fmt.Errorf("delete blockchain wallet: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *blockchainWalletRepository) FindDistinctCurrencies(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, r.pool, `SELECT DISTINCT currency FROM blockchain_wallet ORDER BY currency`)
}

// queryStrings collects a single text column.
func queryStrings(ctx context.Context, q querier, sql string, args ...any) ([]string, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}
	return values, nil
}
