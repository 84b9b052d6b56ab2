package restapi

import (
	"context"
	"time"

	"balance_aggregator/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

const testSecret = "test-secret"

func signToken(subject string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		panic(err)
	}
	return signed
}

type mockSummaryService struct {
	mock.Mock
}

func (m *mockSummaryService) GetCurrencyBalanceSummary(ctx context.Context, userID string) ([]entity.CurrencyBalanceSummary, error) {
	args := m.Called(ctx, userID)
	summaries, _ := args.Get(0).([]entity.CurrencyBalanceSummary)
	return summaries, args.Error(1)
}

func (m *mockSummaryService) RefreshBalanceSummary(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}

type mockWalletService struct {
	mock.Mock
}

func (m *mockWalletService) AddWallet(ctx context.Context, userID string, wallet entity.NewBlockchainWallet) (entity.AddWalletResult, error) {
	args := m.Called(ctx, userID, wallet)
	return args.Get(0).(entity.AddWalletResult), args.Error(1)
}

func (m *mockWalletService) AddWallets(ctx context.Context, userID string, wallets []entity.NewBlockchainWallet) (entity.AddWalletsResult, error) {
	args := m.Called(ctx, userID, wallets)
	return args.Get(0).(entity.AddWalletsResult), args.Error(1)
}

func (m *mockWalletService) UpdateWallet(ctx context.Context, userID string, update entity.BlockchainWalletUpdate) (entity.UpdateWalletResult, error) {
	args := m.Called(ctx, userID, update)
	return args.Get(0).(entity.UpdateWalletResult), args.Error(1)
}

func (m *mockWalletService) GetWallets(ctx context.Context, userID string) ([]entity.BlockchainWallet, error) {
	args := m.Called(ctx, userID)
	wallets, _ := args.Get(0).([]entity.BlockchainWallet)
	return wallets, args.Error(1)
}

func (m *mockWalletService) GetWallet(ctx context.Context, userID string, id uuid.UUID) (*entity.BlockchainWallet, error) {
	args := m.Called(ctx, userID, id)
	wallet, _ := args.Get(0).(*entity.BlockchainWallet)
	return wallet, args.Error(1)
}

func (m *mockWalletService) DeleteWalletByAddress(ctx context.Context, userID, walletAddress string) (bool, error) {
	args := m.Called(ctx, userID, walletAddress)
	return args.Bool(0), args.Error(1)
}

func (m *mockWalletService) DeleteWalletByID(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockWalletService) RefreshWalletBalances(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockWalletService) SupportedCurrencies() []string {
	return m.Called().Get(0).([]string)
}

type mockExchangeService struct {
	mock.Mock
}

func (m *mockExchangeService) RefreshWalletBalances(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockExchangeService) GetWalletBalances(ctx context.Context, userID string) ([]entity.ExchangeUserWalletBalances, error) {
	args := m.Called(ctx, userID)
	accounts, _ := args.Get(0).([]entity.ExchangeUserWalletBalances)
	return accounts, args.Error(1)
}

type mockAssetService struct {
	mock.Mock
}

func (m *mockAssetService) AddAssets(ctx context.Context, userID string, assets []entity.NewCurrencyAsset) ([]entity.UserCurrencyAsset, error) {
	args := m.Called(ctx, userID, assets)
	created, _ := args.Get(0).([]entity.UserCurrencyAsset)
	return created, args.Error(1)
}

func (m *mockAssetService) UpdateAsset(ctx context.Context, userID string, id uuid.UUID, asset entity.NewCurrencyAsset) (bool, error) {
	args := m.Called(ctx, userID, id, asset)
	return args.Bool(0), args.Error(1)
}

func (m *mockAssetService) DeleteAsset(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockAssetService) GetAssets(ctx context.Context, userID string) ([]entity.UserCurrencyAssetWithValue, error) {
	args := m.Called(ctx, userID)
	assets, _ := args.Get(0).([]entity.UserCurrencyAssetWithValue)
	return assets, args.Error(1)
}

func (m *mockAssetService) GetAsset(ctx context.Context, userID string, id uuid.UUID) (*entity.UserCurrencyAssetWithValue, error) {
	args := m.Called(ctx, userID, id)
	asset, _ := args.Get(0).(*entity.UserCurrencyAssetWithValue)
	return asset, args.Error(1)
}

func (m *mockAssetService) GetUserCurrencyAssets(ctx context.Context, userID, currency string) ([]entity.UserCurrencyAsset, error) {
	args := m.Called(ctx, userID, currency)
	assets, _ := args.Get(0).([]entity.UserCurrencyAsset)
	return assets, args.Error(1)
}

type mockPriceService struct {
	mock.Mock
}

func (m *mockPriceService) GetPrice(ctx context.Context, baseCurrency, counterCurrency string) *entity.CurrencyPrice {
	price, _ := m.Called(ctx, baseCurrency, counterCurrency).Get(0).(*entity.CurrencyPrice)
	return price
}

func (m *mockPriceService) GetValue(ctx context.Context, baseCurrency, counterCurrency string, amount decimal.Decimal) decimal.NullDecimal {
	return m.GetPrice(ctx, baseCurrency, counterCurrency).ValueOf(amount)
}

func (m *mockPriceService) RefreshPrice(ctx context.Context, baseCurrency, counterCurrency string) {
	m.Called(ctx, baseCurrency, counterCurrency)
}
