package postgres

import (
	"context"
	"fmt"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const currencyAssetColumns = `id, user_id, currency, balance, description`

type currencyAssetRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ port.CurrencyAssetRepository = (*currencyAssetRepository)(nil)

// NewCurrencyAssetRepository creates a user_currency_asset repository.
func NewCurrencyAssetRepository(pool *pgxpool.Pool, logger *zap.Logger) port.CurrencyAssetRepository {
	return &currencyAssetRepository{pool: pool, logger: logger.Named("CurrencyAssetRepository")}
}

func scanCurrencyAsset(row pgx.Row) (entity.UserCurrencyAsset, error) {
	var a entity.UserCurrencyAsset
	err := row.Scan(&a.ID, &a.UserID, &a.Currency, &a.Balance, &a.Description)
	return a, err
}

// InsertAll inserts every asset or none of them.
func (r *currencyAssetRepository) InsertAll(ctx context.Context, assets []entity.UserCurrencyAsset) error {
	if len(assets) == 0 {
		return nil
	}
	return WithTransaction(ctx, r.pool, r.logger, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, a := range assets {
			batch.Queue(`INSERT INTO user_currency_asset (`+currencyAssetColumns+`) VALUES ($1, $2, $3, $4, $5)`,
				a.ID, a.UserID, a.Currency, a.Balance, a.Description)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert currency assets: %w", err)
		}
		return nil
	})
}

func (r *currencyAssetRepository) Update(ctx context.Context, asset entity.UserCurrencyAsset) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE user_currency_asset SET currency = $3, balance = $4, description = $5 WHERE id = $1 AND user_id = $2`,
		asset.ID, asset.UserID, asset.Currency, asset.Balance, asset.Description)
	if err != nil {
		return false, fmt.Errorf("update currency asset: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *currencyAssetRepository) FindByID(ctx context.Context, userID string, id uuid.UUID) (*entity.UserCurrencyAsset, error) {
	a, err := scanCurrencyAsset(r.pool.QueryRow(ctx,
		`SELECT `+currencyAssetColumns+` FROM user_currency_asset WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *currencyAssetRepository) query(ctx context.Context, sql string, args ...any) ([]entity.UserCurrencyAsset, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query currency assets: %w", err)
	}
	defer rows.Close()

	assets := make([]entity.UserCurrencyAsset, 0)
	for rows.Next() {
		a, err := scanCurrencyAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan currency asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (r *currencyAssetRepository) FindByUserID(ctx context.Context, userID string) ([]entity.UserCurrencyAsset, error) {
	return r.query(ctx, `SELECT `+currencyAssetColumns+` FROM user_currency_asset WHERE user_id = $1 ORDER BY currency, id`, userID)
}

func (r *currencyAssetRepository) FindByUserIDAndCurrency(ctx context.Context, userID, currency string) ([]entity.UserCurrencyAsset, error) {
	return r.query(ctx,
		`SELECT `+currencyAssetColumns+` FROM user_currency_asset WHERE user_id = $1 AND currency = $2 ORDER BY id`, userID, currency)
}

func (r *currencyAssetRepository) DeleteByUserIDAndID(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_currency_asset WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return false, fmt.Errorf("delete currency asset: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
