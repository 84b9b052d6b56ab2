package client

import (
	"context"
	"fmt"
	"time"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/pkg/utils"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EVMBalanceClient implements port.BlockchainBalanceClient for the native coin of an EVM-compatible chain.
type EVMBalanceClient struct {
	ethClient      *ethclient.Client
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
	logger         *zap.Logger
}

var _ port.BlockchainBalanceClient = (*EVMBalanceClient)(nil)

// NewEVMBalanceClient dials the primary RPC URL, then the fallbacks. The whole list
// is retried with exponential backoff until connectionTimeout runs out.
func NewEVMBalanceClient(netDef entity.NetworkDefinition, connectionTimeout, rpcCallTimeout time.Duration, logger *zap.Logger) (*EVMBalanceClient, error) {
	log := logger.Named("EVMBalanceClient").With(zap.String("network", netDef.Name), zap.String("currency", netDef.Currency))
	rpcURLs := append([]string{netDef.PrimaryRPCURL}, netDef.FallbackRPCURLs...)

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	var ethClient *ethclient.Client
	dial := func() error {
		var lastErr error
		for _, rpcURL := range rpcURLs {
			if rpcURL == "" {
				continue
			}
			client, err := ethclient.DialContext(ctx, rpcURL)
			if err == nil {
				log.Info("Connected to RPC", zap.String("rpc", rpcURL))
				ethClient = client
				return nil
			}
			log.Warn("Failed to connect to RPC", zap.String("rpc", rpcURL), zap.Error(err))
			lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
		}
		if lastErr == nil {
			return backoff.Permanent(fmt.Errorf("no RPC URL configured for network %s", netDef.Name))
		}
		return lastErr
	}

	if err := backoff.Retry(dial, backoff.WithContext(backoff.NewExponentialBackOff(), ctx)); err != nil {
		return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, err)
	}
	return &EVMBalanceClient{
		ethClient:      ethClient,
		netDef:         netDef,
		rpcCallTimeout: rpcCallTimeout,
		logger:         log,
	}, nil
}

// Currency returns the native currency code of the network.
func (c *EVMBalanceClient) Currency() string {
	return c.netDef.Currency
}

// GetBalance reads the latest native balance of walletAddress via eth_getBalance.
func (c *EVMBalanceClient) GetBalance(ctx context.Context, walletAddress string) (*decimal.Decimal, error) {
	if !c.IsValidAddress(walletAddress) {
		return nil, fmt.Errorf("invalid %s address %q", c.netDef.Currency, walletAddress)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	wei, err := c.ethClient.BalanceAt(callCtx, common.HexToAddress(walletAddress), nil)
	if err != nil {
		c.logger.Debug("eth_getBalance failed", zap.String("wallet", walletAddress), zap.Error(err))
		return nil, fmt.Errorf("eth_getBalance for %s failed: %w", walletAddress, err)
	}
	if wei == nil {
		return nil, nil
	}
	balance := utils.FromBaseUnits(wei, c.netDef.Decimals)
	return &balance, nil
}

// IsValidAddress reports whether walletAddress is a 20-byte hex address.
func (c *EVMBalanceClient) IsValidAddress(walletAddress string) bool {
	return common.IsHexAddress(walletAddress)
}

// Definition returns the network definition for this client.
func (c *EVMBalanceClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Close releases the underlying RPC connection.
func (c *EVMBalanceClient) Close() {
	c.ethClient.Close()
}
