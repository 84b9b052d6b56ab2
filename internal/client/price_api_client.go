package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"balance_aggregator/internal/app/port"
	domain "balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/entity"
	"balance_aggregator/internal/infrastructure/configloader"
	"balance_aggregator/internal/infrastructure/httpclient"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// priceAPIClientImpl implements port.PriceSource against a CryptoCompare style
// /data/price endpoint.
type priceAPIClientImpl struct {
	http   *httpclient.JSONClient
	logger *zap.Logger
	now    func() time.Time
}

// NewPriceAPIClient creates a new instance of priceAPIClientImpl.
func NewPriceAPIClient(cfg configloader.PriceServiceConfig, logger *zap.Logger) port.PriceSource {
	log := logger.Named("PriceAPIClient")
	opts := []httpclient.Option{httpclient.WithRateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst)}
	if cfg.APIKey != "" {
		opts = append(opts, httpclient.WithHeader("Authorization", "Apikey "+cfg.APIKey))
	}
	return &priceAPIClientImpl{
		http:   httpclient.NewJSONClient(cfg.BaseURL, time.Duration(cfg.RequestTimeoutMillis)*time.Millisecond, log, opts...),
		logger: log,
		now:    time.Now,
	}
}

// GetPrice returns nil without error when the API knows no price for the pair.
func (c *priceAPIClientImpl) GetPrice(ctx context.Context, baseCurrency, counterCurrency string) (*domain.CurrencyPrice, error) {
	query := url.Values{}
	query.Set("fsym", strings.ToUpper(baseCurrency))
	query.Set("tsyms", strings.ToUpper(counterCurrency))

	body, err := c.http.Get(ctx, "/data/price?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var apiErr entity.PriceAPIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.IsError() {
		c.logger.Warn("Price API returned an error",
			zap.String("base", baseCurrency),
			zap.String("counter", counterCurrency),
			zap.String("message", apiErr.Message))
		return nil, fmt.Errorf("price API error for %s/%s: %s", baseCurrency, counterCurrency, apiErr.Message)
	}

	var prices map[string]decimal.Decimal
	if err := json.Unmarshal(body, &prices); err != nil {
		return nil, fmt.Errorf("failed to unmarshal price of %s/%s: %w", baseCurrency, counterCurrency, err)
	}
	price, ok := prices[strings.ToUpper(counterCurrency)]
	if !ok {
		return nil, nil
	}

	c.logger.Debug("Fetched price",
		zap.String("base", baseCurrency),
		zap.String("counter", counterCurrency),
		zap.String("price", price.String()))
	return &domain.CurrencyPrice{
		Price:           price,
		BaseCurrency:    baseCurrency,
		CounterCurrency: counterCurrency,
		AsOfMillis:      c.now().UnixMilli(),
	}, nil
}
