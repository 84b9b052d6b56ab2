package memory

import (
	"context"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"

	"github.com/google/uuid"
)

type currencyAssetRepository struct {
	store *Store
}

var _ port.CurrencyAssetRepository = (*currencyAssetRepository)(nil)

func (r *currencyAssetRepository) InsertAll(_ context.Context, assets []entity.UserCurrencyAsset) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, asset := range assets {
		if _, exists := r.store.currencyAssets[asset.ID]; !exists {
			r.store.assetOrder = append(r.store.assetOrder, asset.ID)
		}
		r.store.currencyAssets[asset.ID] = asset
	}
	return nil
}

func (r *currencyAssetRepository) Update(_ context.Context, asset entity.UserCurrencyAsset) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.currencyAssets[asset.ID]
	if !ok || existing.UserID != asset.UserID {
		return false, nil
	}
	r.store.currencyAssets[asset.ID] = asset
	return true, nil
}

func (r *currencyAssetRepository) FindByID(_ context.Context, userID string, id uuid.UUID) (*entity.UserCurrencyAsset, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	asset, ok := r.store.currencyAssets[id]
	if !ok || asset.UserID != userID {
		return nil, entity.ErrNotFound
	}
	return &asset, nil
}

func (r *currencyAssetRepository) find(match func(entity.UserCurrencyAsset) bool) []entity.UserCurrencyAsset {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]entity.UserCurrencyAsset, 0)
	for _, id := range r.store.assetOrder {
		asset, ok := r.store.currencyAssets[id]
		if ok && match(asset) {
			result = append(result, asset)
		}
	}
	return result
}

func (r *currencyAssetRepository) FindByUserID(_ context.Context, userID string) ([]entity.UserCurrencyAsset, error) {
	return r.find(func(a entity.UserCurrencyAsset) bool { return a.UserID == userID }), nil
}

func (r *currencyAssetRepository) FindByUserIDAndCurrency(_ context.Context, userID, currency string) ([]entity.UserCurrencyAsset, error) {
	return r.find(func(a entity.UserCurrencyAsset) bool { return a.UserID == userID && a.Currency == currency }), nil
}

func (r *currencyAssetRepository) DeleteByUserIDAndID(_ context.Context, userID string, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	asset, ok := r.store.currencyAssets[id]
	if !ok || asset.UserID != userID {
		return false, nil
	}
	delete(r.store.currencyAssets, id)
	order := r.store.assetOrder[:0]
	for _, assetID := range r.store.assetOrder {
		if assetID != id {
			order = append(order, assetID)
		}
	}
	r.store.assetOrder = order
	return true, nil
}
