package service

import (
	"context"
	"fmt"
	"time"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/infrastructure/metrics"

	"github.com/google/uuid"
)

// exchangeWalletServiceImpl implements port.ExchangeWalletService.
type exchangeWalletServiceImpl struct {
	mediator        port.ExchangeMediatorClient
	walletRepo      port.ExchangeWalletRepository
	priceService    port.PriceService
	counterCurrency string
	logger          port.Logger
	now             func() time.Time
}

// NewExchangeWalletService creates a new instance of exchangeWalletServiceImpl.
func NewExchangeWalletService(
	mediator port.ExchangeMediatorClient,
	walletRepo port.ExchangeWalletRepository,
	priceService port.PriceService,
	counterCurrency string,
	logger port.Logger,
) port.ExchangeWalletService {
	return &exchangeWalletServiceImpl{
		mediator:        mediator,
		walletRepo:      walletRepo,
		priceService:    priceService,
		counterCurrency: counterCurrency,
		logger:          logger,
		now:             time.Now,
	}
}

// RefreshWalletBalances replaces every exchange wallet and last-refresh row of the
// user with the mediator snapshot. When the mediator is unreachable the stored
// snapshot is kept.
func (s *exchangeWalletServiceImpl) RefreshWalletBalances(ctx context.Context, userID string) error {
	accounts, err := s.mediator.GetUserBalances(ctx, userID)
	if err != nil {
		metrics.WalletBalanceRefreshes.WithLabelValues("exchange", "error").Inc()
		s.logger.Error("Failed to fetch exchange balances", "user_id", userID, "error", err)
		return nil
	}

	insertedAt := s.now().UnixMilli()
	var wallets []entity.ExchangeWallet
	var refreshes []entity.ExchangeWalletLastRefresh
	for _, account := range accounts {
		for _, exchange := range account.ExchangeBalances {
			// one row per (account, exchange) even without balances
			refreshes = append(refreshes, entity.ExchangeWalletLastRefresh{
				ID:               uuid.New(),
				UserID:           userID,
				Exchange:         exchange.ExchangeName,
				ExchangeUserID:   account.ExchangeUserID,
				ExchangeUserName: account.ExchangeUserName,
				ErrorMessage:     exchange.ErrorMessage,
				InsertedAtMillis: insertedAt,
			})
			if exchange.ErrorMessage != nil {
				s.logger.Warn("Exchange reported an error",
					"user_id", userID,
					"exchange", exchange.ExchangeName,
					"exchange_user_id", account.ExchangeUserID,
					"error", *exchange.ErrorMessage)
			}
			for _, b := range exchange.CurrencyBalances {
				wallets = append(wallets, entity.ExchangeWallet{
					ID:              uuid.New(),
					UserID:          userID,
					Exchange:        exchange.ExchangeName,
					ExchangeUserID:  account.ExchangeUserID,
					Currency:        b.CurrencyCode,
					Balance:         b.Amount,
					AmountInOrders:  b.AmountInOrders,
					AmountAvailable: b.AmountAvailable,
				})
			}
		}
	}

	if err := s.walletRepo.ReplaceUserWallets(ctx, userID, wallets, refreshes); err != nil {
		return fmt.Errorf("failed to replace exchange wallets: %w", err)
	}
	metrics.WalletBalanceRefreshes.WithLabelValues("exchange", "success").Inc()
	s.logger.Info("Exchange wallets refreshed",
		"user_id", userID,
		"accounts", len(accounts),
		"wallets", len(wallets))
	return nil
}

// GetWalletBalances nests the stored snapshot as account -> exchange -> valued balances.
// Accounts keep the order of their first last-refresh row.
func (s *exchangeWalletServiceImpl) GetWalletBalances(ctx context.Context, userID string) ([]entity.ExchangeUserWalletBalances, error) {
	refreshes, err := s.walletRepo.FindLastRefreshesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange refreshes: %w", err)
	}
	wallets, err := s.walletRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange wallets: %w", err)
	}

	type accountExchange struct{ account, exchange string }
	walletsByExchange := make(map[accountExchange][]entity.ExchangeWallet)
	for _, w := range wallets {
		key := accountExchange{account: w.ExchangeUserID, exchange: w.Exchange}
		walletsByExchange[key] = append(walletsByExchange[key], w)
	}

	prices := make(map[string]*entity.CurrencyPrice)
	priceOf := func(currency string) *entity.CurrencyPrice {
		if p, ok := prices[currency]; ok {
			return p
		}
		p := s.priceService.GetPrice(ctx, currency, s.counterCurrency)
		prices[currency] = p
		return p
	}

	result := make([]entity.ExchangeUserWalletBalances, 0)
	accountIndex := make(map[string]int)
	for _, r := range refreshes {
		idx, ok := accountIndex[r.ExchangeUserID]
		if !ok {
			idx = len(result)
			accountIndex[r.ExchangeUserID] = idx
			result = append(result, entity.ExchangeUserWalletBalances{
				ExchangeUserID:   r.ExchangeUserID,
				ExchangeUserName: r.ExchangeUserName,
				Exchanges:        []entity.ExchangeWalletBalances{},
			})
		}
		account := &result[idx]
		if r.InsertedAtMillis > account.RefreshTimeMillis {
			account.RefreshTimeMillis = r.InsertedAtMillis
		}

		balances := make([]entity.ExchangeCurrencyValuedBalance, 0)
		for _, w := range walletsByExchange[accountExchange{account: r.ExchangeUserID, exchange: r.Exchange}] {
			price := priceOf(w.Currency)
			balances = append(balances, entity.ExchangeCurrencyValuedBalance{
				CurrencyCode:    w.Currency,
				Balance:         w.Balance,
				AmountAvailable: w.AmountAvailable,
				AmountInOrders:  w.AmountInOrders,
				PriceInUSD:      price.PriceOrNull(),
				ValueInUSD:      price.ValueOf(w.Balance),
			})
		}
		account.Exchanges = append(account.Exchanges, entity.ExchangeWalletBalances{
			ExchangeName:     r.Exchange,
			ErrorMessage:     r.ErrorMessage,
			CurrencyBalances: balances,
		})
	}
	return result, nil
}
