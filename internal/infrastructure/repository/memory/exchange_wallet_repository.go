package memory

import (
	"context"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/pkg/utils"
)

type exchangeWalletRepository struct {
	store *Store
}

var _ port.ExchangeWalletRepository = (*exchangeWalletRepository)(nil)

func (r *exchangeWalletRepository) FindByUserID(_ context.Context, userID string) ([]entity.ExchangeWallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append(make([]entity.ExchangeWallet, 0), r.store.exchangeWallets[userID]...), nil
}

func (r *exchangeWalletRepository) FindByUserIDAndCurrency(_ context.Context, userID, currency string) ([]entity.ExchangeWallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]entity.ExchangeWallet, 0)
	for _, w := range r.store.exchangeWallets[userID] {
		if w.Currency == currency {
			result = append(result, w)
		}
	}
	return result, nil
}

func (r *exchangeWalletRepository) FindLastRefreshesByUserID(_ context.Context, userID string) ([]entity.ExchangeWalletLastRefresh, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append(make([]entity.ExchangeWalletLastRefresh, 0), r.store.lastRefreshes[userID]...), nil
}

func (r *exchangeWalletRepository) ReplaceUserWallets(_ context.Context, userID string, wallets []entity.ExchangeWallet, refreshes []entity.ExchangeWalletLastRefresh) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.exchangeWallets, userID)
	delete(r.store.lastRefreshes, userID)
	if len(wallets) > 0 {
		r.store.exchangeWallets[userID] = append([]entity.ExchangeWallet(nil), wallets...)
	}
	if len(refreshes) > 0 {
		r.store.lastRefreshes[userID] = append([]entity.ExchangeWalletLastRefresh(nil), refreshes...)
	}
	return nil
}

func (r *exchangeWalletRepository) FindDistinctCurrencies(_ context.Context) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var currencies []string
	for _, wallets := range r.store.exchangeWallets {
		for _, w := range wallets {
			currencies = append(currencies, w.Currency)
		}
	}
	return utils.UniqueSorted(currencies), nil
}
