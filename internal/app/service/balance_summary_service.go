package service

import (
	"context"
	"fmt"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// balanceSummaryServiceImpl implements port.BalanceSummaryService.
type balanceSummaryServiceImpl struct {
	summaryRepo            port.BalanceSummaryRepository
	walletRepo             port.BlockchainWalletRepository
	exchangeWalletRepo     port.ExchangeWalletRepository
	currencyAssetService   port.CurrencyAssetService
	blockchainWallets      port.BlockchainWalletService
	exchangeWallets        port.ExchangeWalletService
	priceService           port.PriceService
	counterCurrency        string
	maxConcurrentSummaries int
	logger                 port.Logger
}

// NewBalanceSummaryService creates a new instance of balanceSummaryServiceImpl.
func NewBalanceSummaryService(
	summaryRepo port.BalanceSummaryRepository,
	walletRepo port.BlockchainWalletRepository,
	exchangeWalletRepo port.ExchangeWalletRepository,
	currencyAssetService port.CurrencyAssetService,
	blockchainWallets port.BlockchainWalletService,
	exchangeWallets port.ExchangeWalletService,
	priceService port.PriceService,
	counterCurrency string,
	maxConcurrentSummaries int,
	logger port.Logger,
) port.BalanceSummaryService {
	if maxConcurrentSummaries <= 0 {
		maxConcurrentSummaries = 5
	}
	return &balanceSummaryServiceImpl{
		summaryRepo:            summaryRepo,
		walletRepo:             walletRepo,
		exchangeWalletRepo:     exchangeWalletRepo,
		currencyAssetService:   currencyAssetService,
		blockchainWallets:      blockchainWallets,
		exchangeWallets:        exchangeWallets,
		priceService:           priceService,
		counterCurrency:        counterCurrency,
		maxConcurrentSummaries: maxConcurrentSummaries,
		logger:                 logger,
	}
}

// GetCurrencyBalanceSummary returns one summary per held currency, ordered by currency code.
func (s *balanceSummaryServiceImpl) GetCurrencyBalanceSummary(ctx context.Context, userID string) ([]entity.CurrencyBalanceSummary, error) {
	currencies, err := s.summaryRepo.FindUserCurrencies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user currencies: %w", err)
	}

	// currencies come sorted, each goroutine writes only its own slot
	summaries := make([]entity.CurrencyBalanceSummary, len(currencies))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.maxConcurrentSummaries)
	for i, currency := range currencies {
		eg.Go(func() error {
			summary, err := s.summarizeCurrency(egCtx, userID, currency)
			if err != nil {
				return err
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// RefreshBalanceSummary refreshes blockchain and exchange wallets concurrently and
// waits for both. A failure of one side is logged and does not affect the other.
func (s *balanceSummaryServiceImpl) RefreshBalanceSummary(ctx context.Context, userID string) {
	var eg errgroup.Group
	eg.Go(func() error {
		if err := s.blockchainWallets.RefreshWalletBalances(ctx, userID); err != nil {
			s.logger.Error("Blockchain wallet refresh failed", "user_id", userID, "error", err)
		}
		return nil
	})
	eg.Go(func() error {
		if err := s.exchangeWallets.RefreshWalletBalances(ctx, userID); err != nil {
			s.logger.Error("Exchange wallet refresh failed", "user_id", userID, "error", err)
		}
		return nil
	})
	_ = eg.Wait()
}

func (s *balanceSummaryServiceImpl) summarizeCurrency(ctx context.Context, userID, currency string) (entity.CurrencyBalanceSummary, error) {
	wallets, err := s.walletRepo.FindByUserIDAndCurrency(ctx, userID, currency)
	if err != nil {
		return entity.CurrencyBalanceSummary{}, fmt.Errorf("failed to list %s wallets: %w", currency, err)
	}
	exchangeWallets, err := s.exchangeWalletRepo.FindByUserIDAndCurrency(ctx, userID, currency)
	if err != nil {
		return entity.CurrencyBalanceSummary{}, fmt.Errorf("failed to list %s exchange wallets: %w", currency, err)
	}
	assets, err := s.currencyAssetService.GetUserCurrencyAssets(ctx, userID, currency)
	if err != nil {
		return entity.CurrencyBalanceSummary{}, err
	}

	// one lookup per currency keeps every breakdown on the same price
	price := s.priceService.GetPrice(ctx, currency, s.counterCurrency)
	total := sumBalances(wallets, exchangeWallets, assets)

	summary := entity.CurrencyBalanceSummary{
		Currency:               currency,
		TotalBalance:           total,
		PriceInUSD:             price.PriceOrNull(),
		ExchangeBreakdown:      make([]entity.ExchangeCurrencySummary, 0, len(exchangeWallets)),
		WalletBreakdown:        make([]entity.BlockchainWalletCurrencySummary, 0, len(wallets)),
		CurrencyAssetBreakdown: make([]entity.CurrencyAssetSummary, 0, len(assets)),
	}
	if total.Valid {
		summary.ValueInUSD = price.ValueOf(total.Decimal)
	}

	for _, w := range exchangeWallets {
		summary.ExchangeBreakdown = append(summary.ExchangeBreakdown, entity.ExchangeCurrencySummary{
			ExchangeName:   w.Exchange,
			ExchangeUserID: w.ExchangeUserID,
			Balance:        w.Balance,
			ValueInUSD:     price.ValueOf(w.Balance),
		})
	}
	for _, w := range wallets {
		walletSummary := entity.BlockchainWalletCurrencySummary{
			WalletAddress: w.WalletAddress,
			Description:   w.Description,
			Balance:       w.Balance,
		}
		if w.Balance.Valid {
			walletSummary.ValueInUSD = price.ValueOf(w.Balance.Decimal)
		}
		summary.WalletBreakdown = append(summary.WalletBreakdown, walletSummary)
	}
	for _, a := range assets {
		summary.CurrencyAssetBreakdown = append(summary.CurrencyAssetBreakdown, entity.CurrencyAssetSummary{
			Description: a.Description,
			Balance:     a.Balance,
			ValueInUSD:  price.ValueOf(a.Balance),
		})
	}
	return summary, nil
}

// sumBalances is null only when no wallet has a known balance and nothing else contributes.
// Otherwise unknown wallet balances count as zero.
func sumBalances(wallets []entity.BlockchainWallet, exchangeWallets []entity.ExchangeWallet, assets []entity.UserCurrencyAsset) decimal.NullDecimal {
	known := len(exchangeWallets) > 0 || len(assets) > 0
	total := decimal.Zero
	for _, w := range wallets {
		if w.Balance.Valid {
			known = true
			total = total.Add(w.Balance.Decimal)
		}
	}
	if !known {
		return decimal.NullDecimal{}
	}
	for _, w := range exchangeWallets {
		total = total.Add(w.Balance)
	}
	for _, a := range assets {
		total = total.Add(a.Balance)
	}
	return decimal.NewNullDecimal(total)
}
