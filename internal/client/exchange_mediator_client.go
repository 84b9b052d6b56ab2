package client

import (
	"context"
	"net/url"
	"time"

	"balance_aggregator/internal/app/port"
	domain "balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/entity"
	"balance_aggregator/internal/infrastructure/configloader"
	"balance_aggregator/internal/infrastructure/httpclient"

	"go.uber.org/zap"
)

// exchangeMediatorClientImpl implements port.ExchangeMediatorClient.
type exchangeMediatorClientImpl struct {
	http   *httpclient.JSONClient
	logger *zap.Logger
}

// NewExchangeMediatorClient creates a new instance of exchangeMediatorClientImpl.
func NewExchangeMediatorClient(cfg configloader.ExchangeMediatorConfig, logger *zap.Logger) port.ExchangeMediatorClient {
	log := logger.Named("ExchangeMediatorClient")
	return &exchangeMediatorClientImpl{
		http:   httpclient.NewJSONClient(cfg.BaseURL, time.Duration(cfg.RequestTimeoutMillis)*time.Millisecond, log),
		logger: log,
	}
}

// GetUserBalances returns the mediator snapshot for every exchange account of the user.
func (c *exchangeMediatorClientImpl) GetUserBalances(ctx context.Context, userID string) ([]domain.ExchangeAccountBalances, error) {
	var accounts []entity.MediatorAccountBalances
	if err := c.http.GetJSON(ctx, "/users/"+url.PathEscape(userID)+"/balances", &accounts); err != nil {
		return nil, err
	}

	result := make([]domain.ExchangeAccountBalances, 0, len(accounts))
	for _, a := range accounts {
		account := domain.ExchangeAccountBalances{
			ExchangeUserID:   a.ExchangeUserID,
			ExchangeUserName: a.ExchangeUserName,
			ExchangeBalances: make([]domain.ExchangeBalance, 0, len(a.ExchangeBalances)),
		}
		for _, e := range a.ExchangeBalances {
			exchange := domain.ExchangeBalance{
				ExchangeName:     e.ExchangeName,
				ErrorMessage:     e.ErrorMessage,
				CurrencyBalances: make([]domain.ExchangeCurrencyBalance, 0, len(e.CurrencyBalances)),
			}
			for _, b := range e.CurrencyBalances {
				exchange.CurrencyBalances = append(exchange.CurrencyBalances, domain.ExchangeCurrencyBalance{
					CurrencyCode:    b.CurrencyCode,
					Amount:          b.Amount,
					AmountAvailable: b.AmountAvailable,
					AmountInOrders:  b.AmountInOrders,
				})
			}
			account.ExchangeBalances = append(account.ExchangeBalances, exchange)
		}
		result = append(result, account)
	}

	c.logger.Debug("Fetched exchange balances", zap.String("userID", userID), zap.Int("accounts", len(result)))
	return result, nil
}
