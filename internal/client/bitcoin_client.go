package client

import (
	"context"
	"fmt"
	"math/big"
	"net/url"
	"regexp"
	"strings"
	"time"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/infrastructure/configloader"
	"balance_aggregator/internal/infrastructure/httpclient"
	"balance_aggregator/internal/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	bitcoinCurrency = "BTC"
	satoshiDecimals = 8
)

var (
	// P2PKH / P2SH
	base58AddressPattern = regexp.MustCompile(`^[13][1-9A-HJ-NP-Za-km-z]{25,34}$`)
	// SegWit / Taproot, lower case only
	bech32AddressPattern = regexp.MustCompile(`^bc1[02-9ac-hj-np-z]{11,71}$`)
)

// bitcoinClientImpl implements port.BlockchainBalanceClient for BTC via a
// blockchain.info style /q/addressbalance endpoint.
type bitcoinClientImpl struct {
	http   *httpclient.JSONClient
	logger *zap.Logger
}

// NewBitcoinClient creates a new instance of bitcoinClientImpl.
func NewBitcoinClient(cfg configloader.BitcoinConfig, logger *zap.Logger) port.BlockchainBalanceClient {
	log := logger.Named("BitcoinClient")
	return &bitcoinClientImpl{
		http:   httpclient.NewJSONClient(cfg.BaseURL, time.Duration(cfg.RequestTimeoutMillis)*time.Millisecond, log),
		logger: log,
	}
}

func (c *bitcoinClientImpl) Currency() string {
	return bitcoinCurrency
}

// GetBalance returns the confirmed balance of walletAddress in BTC.
func (c *bitcoinClientImpl) GetBalance(ctx context.Context, walletAddress string) (*decimal.Decimal, error) {
	if !c.IsValidAddress(walletAddress) {
		return nil, fmt.Errorf("invalid BTC address %q", walletAddress)
	}

	body, err := c.http.Get(ctx, "/q/addressbalance/"+url.PathEscape(walletAddress)+"?confirmations=1")
	if err != nil {
		return nil, err
	}

	satoshis, ok := new(big.Int).SetString(strings.TrimSpace(string(body)), 10)
	if !ok {
		c.logger.Error("Unexpected address balance body", zap.String("wallet", walletAddress), zap.ByteString("responseBody", body))
		return nil, fmt.Errorf("unexpected address balance body for %s: %q", walletAddress, body)
	}
	balance := utils.FromBaseUnits(satoshis, satoshiDecimals)
	return &balance, nil
}

func (c *bitcoinClientImpl) IsValidAddress(walletAddress string) bool {
	return base58AddressPattern.MatchString(walletAddress) || bech32AddressPattern.MatchString(walletAddress)
}
