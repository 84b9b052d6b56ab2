package postgres

import (
	"errors"
	"fmt"
	"testing"

	"balance_aggregator/internal/domain/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "no rows", err: pgx.ErrNoRows, want: entity.ErrNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("scan: %w", pgx.ErrNoRows), want: entity.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505", ConstraintName: "blockchain_wallet_user_address_key"}, want: entity.ErrDuplicateWalletAddress},
		{name: "other pg error", err: &pgconn.PgError{Code: "23503"}, want: nil},
		{name: "other error", err: other, want: other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			switch {
			case tt.err == nil:
				assert.NoError(t, got)
			case tt.want == nil:
				assert.Same(t, tt.err, got)
			default:
				assert.ErrorIs(t, got, tt.want)
			}
		})
	}
}

func TestSchemaIsEmbedded(t *testing.T) {
	for _, table := range []string{"blockchain_wallet", "exchange_wallet", "exchange_wallet_last_refresh", "user_currency_asset"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.Contains(t, schemaSQL, "UNIQUE (user_id, wallet_address)")
}
