package provider

import (
	"context"
	"testing"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	currency string
}

func (c stubClient) Currency() string { return c.currency }

func (c stubClient) GetBalance(context.Context, string) (*decimal.Decimal, error) {
	return nil, nil
}

func (c stubClient) IsValidAddress(string) bool { return true }

func TestBlockchainClientRegistry(t *testing.T) {
	r, err := NewBlockchainClientRegistry(
		[]port.BlockchainBalanceClient{stubClient{currency: "ETH"}, stubClient{currency: "btc"}},
		logger.NewNopLogger(),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"BTC", "ETH"}, r.SupportedCurrencies())
	assert.True(t, r.IsSupported("eth"))
	assert.False(t, r.IsSupported("DOGE"))

	c, err := r.Client("BTC")
	require.NoError(t, err)
	assert.Equal(t, "btc", c.Currency())

	_, err = r.Client("DOGE")
	assert.ErrorIs(t, err, entity.ErrNoBlockchainClient)
}

func TestBlockchainClientRegistry_DuplicateCurrency(t *testing.T) {
	_, err := NewBlockchainClientRegistry(
		[]port.BlockchainBalanceClient{stubClient{currency: "ETH"}, stubClient{currency: "eth"}},
		logger.NewNopLogger(),
	)
	assert.Error(t, err)
}
