package memory

import (
	"context"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type blockchainWalletRepository struct {
	store *Store
}

var _ port.BlockchainWalletRepository = (*blockchainWalletRepository)(nil)

func (r *blockchainWalletRepository) addressTaken(userID, walletAddress string, except uuid.UUID) bool {
	for id, w := range r.store.blockchainWallets {
		if id != except && w.UserID == userID && w.WalletAddress == walletAddress {
			return true
		}
	}
	return false
}

func (r *blockchainWalletRepository) Insert(_ context.Context, wallet entity.BlockchainWallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.addressTaken(wallet.UserID, wallet.WalletAddress, uuid.Nil) {
		return entity.ErrDuplicateWalletAddress
	}
	r.store.blockchainWallets[wallet.ID] = wallet
	r.store.walletOrder = append(r.store.walletOrder, wallet.ID)
	return nil
}

func (r *blockchainWalletRepository) Update(_ context.Context, wallet entity.BlockchainWallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.blockchainWallets[wallet.ID]
	if !ok || existing.UserID != wallet.UserID {
		return entity.ErrNotFound
	}
	if r.addressTaken(wallet.UserID, wallet.WalletAddress, wallet.ID) {
		return entity.ErrDuplicateWalletAddress
	}
	r.store.blockchainWallets[wallet.ID] = wallet
	return nil
}

func (r *blockchainWalletRepository) UpdateBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	wallet, ok := r.store.blockchainWallets[id]
	if !ok {
		return entity.ErrNotFound
	}
	wallet.Balance = decimal.NewNullDecimal(balance)
	r.store.blockchainWallets[id] = wallet
	return nil
}

func (r *blockchainWalletRepository) FindByID(_ context.Context, userID string, id uuid.UUID) (*entity.BlockchainWallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wallet, ok := r.store.blockchainWallets[id]
	if !ok || wallet.UserID != userID {
		return nil, entity.ErrNotFound
	}
	return &wallet, nil
}

func (r *blockchainWalletRepository) find(match func(entity.BlockchainWallet) bool) []entity.BlockchainWallet {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]entity.BlockchainWallet, 0)
	for _, id := range r.store.walletOrder {
		wallet, ok := r.store.blockchainWallets[id]
		if ok && match(wallet) {
			result = append(result, wallet)
		}
	}
	return result
}

func (r *blockchainWalletRepository) FindByUserID(_ context.Context, userID string) ([]entity.BlockchainWallet, error) {
	return r.find(func(w entity.BlockchainWallet) bool { return w.UserID == userID }), nil
}

func (r *blockchainWalletRepository) FindByUserIDAndCurrency(_ context.Context, userID, currency string) ([]entity.BlockchainWallet, error) {
	return r.find(func(w entity.BlockchainWallet) bool { return w.UserID == userID && w.Currency == currency }), nil
}

func (r *blockchainWalletRepository) ExistsByUserIDAndAddress(_ context.Context, userID, walletAddress string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.addressTaken(userID, walletAddress, uuid.Nil), nil
}

func (r *blockchainWalletRepository) delete(match func(entity.BlockchainWallet) bool) bool {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	deleted := false
	order := r.store.walletOrder[:0]
	for _, id := range r.store.walletOrder {
		wallet, ok := r.store.blockchainWallets[id]
		if ok && match(wallet) {
			delete(r.store.blockchainWallets, id)
			deleted = true
			continue
		}
		order = append(order, id)
	}
	r.store.walletOrder = order
	return deleted
}

func (r *blockchainWalletRepository) DeleteByUserIDAndAddress(_ context.Context, userID, walletAddress string) (bool, error) {
	return r.delete(func(w entity.BlockchainWallet) bool {
		return w.UserID == userID && w.WalletAddress == walletAddress
	}), nil
}

func (r *blockchainWalletRepository) DeleteByUserIDAndID(_ context.Context, userID string, id uuid.UUID) (bool, error) {
	return r.delete(func(w entity.BlockchainWallet) bool {
		return w.UserID == userID && w.ID == id
	}), nil
}

func (r *blockchainWalletRepository) FindDistinctCurrencies(_ context.Context) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	currencies := make([]string, 0, len(r.store.blockchainWallets))
	for _, w := range r.store.blockchainWallets {
		currencies = append(currencies, w.Currency)
	}
	return utils.UniqueSorted(currencies), nil
}
