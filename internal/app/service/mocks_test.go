package service

import (
	"context"
	"sort"
	"sync"

	"balance_aggregator/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockPriceSource struct {
	mock.Mock
}

func (m *mockPriceSource) GetPrice(ctx context.Context, baseCurrency, counterCurrency string) (*entity.CurrencyPrice, error) {
	args := m.Called(ctx, baseCurrency, counterCurrency)
	price, _ := args.Get(0).(*entity.CurrencyPrice)
	return price, args.Error(1)
}

type mockBalanceClient struct {
	mock.Mock
	currency string
}

func (m *mockBalanceClient) Currency() string { return m.currency }

func (m *mockBalanceClient) GetBalance(ctx context.Context, walletAddress string) (*decimal.Decimal, error) {
	args := m.Called(ctx, walletAddress)
	balance, _ := args.Get(0).(*decimal.Decimal)
	return balance, args.Error(1)
}

func (m *mockBalanceClient) IsValidAddress(walletAddress string) bool {
	return walletAddress != "" && walletAddress != "invalid"
}

type mockMediatorClient struct {
	mock.Mock
}

func (m *mockMediatorClient) GetUserBalances(ctx context.Context, userID string) ([]entity.ExchangeAccountBalances, error) {
	args := m.Called(ctx, userID)
	balances, _ := args.Get(0).([]entity.ExchangeAccountBalances)
	return balances, args.Error(1)
}

// fixedPriceService serves prices from a map and records refresh calls.
type fixedPriceService struct {
	mu        sync.Mutex
	prices    map[string]decimal.Decimal
	refreshed []string
}

func newFixedPriceService(prices map[string]string) *fixedPriceService {
	s := &fixedPriceService{prices: make(map[string]decimal.Decimal)}
	for k, v := range prices {
		s.prices[k] = decimal.RequireFromString(v)
	}
	return s
}

func (s *fixedPriceService) GetPrice(_ context.Context, baseCurrency, counterCurrency string) *entity.CurrencyPrice {
	if baseCurrency == counterCurrency {
		return &entity.CurrencyPrice{Price: decimal.NewFromInt(1), BaseCurrency: baseCurrency, CounterCurrency: counterCurrency}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	price, ok := s.prices[priceKey(baseCurrency, counterCurrency)]
	if !ok {
		return nil
	}
	return &entity.CurrencyPrice{Price: price, BaseCurrency: baseCurrency, CounterCurrency: counterCurrency}
}

func (s *fixedPriceService) GetValue(ctx context.Context, baseCurrency, counterCurrency string, amount decimal.Decimal) decimal.NullDecimal {
	return s.GetPrice(ctx, baseCurrency, counterCurrency).ValueOf(amount)
}

func (s *fixedPriceService) RefreshPrice(_ context.Context, baseCurrency, counterCurrency string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshed = append(s.refreshed, priceKey(baseCurrency, counterCurrency))
}

func (s *fixedPriceService) refreshedPairs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	pairs := append([]string(nil), s.refreshed...)
	sort.Strings(pairs)
	return pairs
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}
