package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"

	"github.com/google/uuid"
)

// currencyAssetServiceImpl implements port.CurrencyAssetService.
type currencyAssetServiceImpl struct {
	assetRepo       port.CurrencyAssetRepository
	priceService    port.PriceService
	counterCurrency string
	logger          port.Logger
}

// NewCurrencyAssetService creates a new instance of currencyAssetServiceImpl.
func NewCurrencyAssetService(
	assetRepo port.CurrencyAssetRepository,
	priceService port.PriceService,
	counterCurrency string,
	logger port.Logger,
) port.CurrencyAssetService {
	return &currencyAssetServiceImpl{
		assetRepo:       assetRepo,
		priceService:    priceService,
		counterCurrency: counterCurrency,
		logger:          logger,
	}
}

func (s *currencyAssetServiceImpl) AddAssets(ctx context.Context, userID string, assets []entity.NewCurrencyAsset) ([]entity.UserCurrencyAsset, error) {
	created := make([]entity.UserCurrencyAsset, 0, len(assets))
	for _, a := range assets {
		created = append(created, entity.UserCurrencyAsset{
			ID:          uuid.New(),
			UserID:      userID,
			Currency:    strings.ToUpper(a.Currency),
			Balance:     a.Balance,
			Description: a.Description,
		})
	}
	if len(created) == 0 {
		return created, nil
	}
	if err := s.assetRepo.InsertAll(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to insert currency assets: %w", err)
	}
	s.logger.Info("Currency assets added", "user_id", userID, "count", len(created))
	return created, nil
}

// UpdateAsset returns false when the user owns no asset with the given id.
func (s *currencyAssetServiceImpl) UpdateAsset(ctx context.Context, userID string, id uuid.UUID, asset entity.NewCurrencyAsset) (bool, error) {
	updated, err := s.assetRepo.Update(ctx, entity.UserCurrencyAsset{
		ID:          id,
		UserID:      userID,
		Currency:    strings.ToUpper(asset.Currency),
		Balance:     asset.Balance,
		Description: asset.Description,
	})
	if err != nil {
		return false, fmt.Errorf("failed to update currency asset %s: %w", id, err)
	}
	return updated, nil
}

func (s *currencyAssetServiceImpl) DeleteAsset(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	deleted, err := s.assetRepo.DeleteByUserIDAndID(ctx, userID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete currency asset %s: %w", id, err)
	}
	return deleted, nil
}

// GetAssets returns every asset of the user valued in the counter currency.
func (s *currencyAssetServiceImpl) GetAssets(ctx context.Context, userID string) ([]entity.UserCurrencyAssetWithValue, error) {
	assets, err := s.assetRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list currency assets: %w", err)
	}

	prices := make(map[string]*entity.CurrencyPrice)
	result := make([]entity.UserCurrencyAssetWithValue, 0, len(assets))
	for _, a := range assets {
		price, ok := prices[a.Currency]
		if !ok {
			price = s.priceService.GetPrice(ctx, a.Currency, s.counterCurrency)
			prices[a.Currency] = price
		}
		result = append(result, withValue(a, price))
	}
	return result, nil
}

// GetAsset returns nil when the asset is missing or owned by someone else.
func (s *currencyAssetServiceImpl) GetAsset(ctx context.Context, userID string, id uuid.UUID) (*entity.UserCurrencyAssetWithValue, error) {
	asset, err := s.assetRepo.FindByID(ctx, userID, id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find currency asset %s: %w", id, err)
	}
	valued := withValue(*asset, s.priceService.GetPrice(ctx, asset.Currency, s.counterCurrency))
	return &valued, nil
}

func (s *currencyAssetServiceImpl) GetUserCurrencyAssets(ctx context.Context, userID, currency string) ([]entity.UserCurrencyAsset, error) {
	assets, err := s.assetRepo.FindByUserIDAndCurrency(ctx, userID, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s currency assets: %w", currency, err)
	}
	return assets, nil
}

func withValue(asset entity.UserCurrencyAsset, price *entity.CurrencyPrice) entity.UserCurrencyAssetWithValue {
	return entity.UserCurrencyAssetWithValue{
		UserCurrencyAsset: asset,
		PriceInUSD:        price.PriceOrNull(),
		ValueInUSD:        price.ValueOf(asset.Balance),
	}
}
