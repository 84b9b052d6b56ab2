package memory

import (
	"context"
	"sync"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/pkg/utils"

	"github.com/google/uuid"
)

// Store keeps every table in process memory behind a single lock.
// It backs tests and the repository.useInMemory mode.
type Store struct {
	mu                sync.RWMutex
	blockchainWallets map[uuid.UUID]entity.BlockchainWallet
	exchangeWallets   map[string][]entity.ExchangeWallet
	lastRefreshes     map[string][]entity.ExchangeWalletLastRefresh
	currencyAssets    map[uuid.UUID]entity.UserCurrencyAsset
	// insertion order keeps listings stable
	walletOrder []uuid.UUID
	assetOrder  []uuid.UUID
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		blockchainWallets: make(map[uuid.UUID]entity.BlockchainWallet),
		exchangeWallets:   make(map[string][]entity.ExchangeWallet),
		lastRefreshes:     make(map[string][]entity.ExchangeWalletLastRefresh),
		currencyAssets:    make(map[uuid.UUID]entity.UserCurrencyAsset),
	}
}

// BlockchainWallets returns the blockchain wallet repository view of the store.
func (s *Store) BlockchainWallets() port.BlockchainWalletRepository {
	return &blockchainWalletRepository{store: s}
}

// ExchangeWallets returns the exchange wallet repository view of the store.
func (s *Store) ExchangeWallets() port.ExchangeWalletRepository {
	return &exchangeWalletRepository{store: s}
}

// CurrencyAssets returns the currency asset repository view of the store.
func (s *Store) CurrencyAssets() port.CurrencyAssetRepository {
	return &currencyAssetRepository{store: s}
}

// BalanceSummary returns the aggregate query view of the store.
func (s *Store) BalanceSummary() port.BalanceSummaryRepository {
	return &balanceSummaryRepository{store: s}
}

type balanceSummaryRepository struct {
	store *Store
}

var _ port.BalanceSummaryRepository = (*balanceSummaryRepository)(nil)

func (r *balanceSummaryRepository) FindUserCurrencies(_ context.Context, userID string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var currencies []string
	for _, w := range r.store.blockchainWallets {
		if w.UserID == userID {
			currencies = append(currencies, w.Currency)
		}
	}
	for _, w := range r.store.exchangeWallets[userID] {
		currencies = append(currencies, w.Currency)
	}
	for _, a := range r.store.currencyAssets {
		if a.UserID == userID {
			currencies = append(currencies, a.Currency)
		}
	}
	return utils.UniqueSorted(currencies), nil
}
