package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/infrastructure/metrics"
	"balance_aggregator/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

const defaultPriceRefreshInterval = time.Hour

// priceRefreshSchedulerImpl periodically forces the price cache to refetch prices
// of every currency held by any user.
type priceRefreshSchedulerImpl struct {
	priceService         port.PriceService
	walletRepo           port.BlockchainWalletRepository
	exchangeWalletRepo   port.ExchangeWalletRepository
	counterCurrency      string
	maxConcurrentFetches int
	logger               port.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewPriceRefreshScheduler creates a new scheduler. Nothing runs until ScheduleRefreshing is called.
func NewPriceRefreshScheduler(
	priceService port.PriceService,
	walletRepo port.BlockchainWalletRepository,
	exchangeWalletRepo port.ExchangeWalletRepository,
	counterCurrency string,
	maxConcurrentFetches int,
	logger port.Logger,
) port.PriceRefreshScheduler {
	if maxConcurrentFetches <= 0 {
		maxConcurrentFetches = 5
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &priceRefreshSchedulerImpl{
		priceService:         priceService,
		walletRepo:           walletRepo,
		exchangeWalletRepo:   exchangeWalletRepo,
		counterCurrency:      counterCurrency,
		maxConcurrentFetches: maxConcurrentFetches,
		logger:               logger,
		ctx:                  ctx,
		cancel:               cancel,
	}
}

// ScheduleRefreshing runs the first cycle immediately, then one cycle per interval until Stop.
func (s *priceRefreshSchedulerImpl) ScheduleRefreshing(interval time.Duration) {
	if interval <= 0 {
		interval = defaultPriceRefreshInterval
	}
	s.logger.Info("Starting price refresh scheduler", "interval", interval.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.runCycle()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runCycle()
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the running cycle and waits for the schedule goroutine to exit.
func (s *priceRefreshSchedulerImpl) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping price refresh scheduler")
		s.cancel()
		s.wg.Wait()
	})
}

func (s *priceRefreshSchedulerImpl) runCycle() {
	started := time.Now()
	defer func() {
		metrics.PriceRefreshCycleDuration.Observe(time.Since(started).Seconds())
		if r := recover(); r != nil {
			metrics.PriceRefreshCycles.WithLabelValues("failed").Inc()
			s.logger.Error("Price refresh cycle panicked", "panic", fmt.Sprint(r))
		}
	}()

	refreshed, err := s.refreshHeldCurrencies(s.ctx)
	if err != nil {
		metrics.PriceRefreshCycles.WithLabelValues("failed").Inc()
		s.logger.Error("Price refresh cycle failed", "error", err)
		return
	}
	metrics.PriceRefreshCycles.WithLabelValues("ok").Inc()
	s.logger.Info("Price refresh cycle finished",
		"currencies", refreshed,
		"duration_ms", time.Since(started).Milliseconds())
}

func (s *priceRefreshSchedulerImpl) refreshHeldCurrencies(ctx context.Context) (int, error) {
	walletCurrencies, err := s.walletRepo.FindDistinctCurrencies(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list blockchain wallet currencies: %w", err)
	}
	exchangeCurrencies, err := s.exchangeWalletRepo.FindDistinctCurrencies(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list exchange wallet currencies: %w", err)
	}

	currencies := utils.UniqueSorted(walletCurrencies, exchangeCurrencies)

	eg := errgroup.Group{}
	eg.SetLimit(s.maxConcurrentFetches)
	for _, currency := range currencies {
		eg.Go(func() error {
			s.priceService.RefreshPrice(ctx, currency, s.counterCurrency)
			return nil
		})
	}
	_ = eg.Wait()

	return len(currencies), nil
}
