package service

import (
	"context"
	"time"

	"balance_aggregator/internal/app/port"
	"balance_aggregator/internal/domain/entity"
	"balance_aggregator/internal/infrastructure/metrics"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	defaultPriceSuccessTTL      = 24 * time.Hour
	defaultPriceFailureTTL      = time.Hour
	defaultPriceRefreshAfter    = time.Hour
	defaultPriceCleanupInterval = 10 * time.Minute
)

// PriceCacheOptions configures expirations of the price cache. Zero values fall back to defaults.
type PriceCacheOptions struct {
	SuccessTTL      time.Duration
	FailureTTL      time.Duration
	RefreshAfter    time.Duration
	CleanupInterval time.Duration
}

func (o PriceCacheOptions) withDefaults() PriceCacheOptions {
	if o.SuccessTTL <= 0 {
		o.SuccessTTL = defaultPriceSuccessTTL
	}
	if o.FailureTTL <= 0 {
		o.FailureTTL = defaultPriceFailureTTL
	}
	if o.RefreshAfter <= 0 {
		o.RefreshAfter = defaultPriceRefreshAfter
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = defaultPriceCleanupInterval
	}
	return o
}

// priceEntry is what the cache stores per pair. A nil price marks a failed lookup.
type priceEntry struct {
	price     *entity.CurrencyPrice
	fetchedAt time.Time
}

// priceCacheImpl implements port.PriceService on top of a port.PriceSource.
type priceCacheImpl struct {
	source port.PriceSource
	logger port.Logger
	opts   PriceCacheOptions
	prices *cache.Cache
	flight singleflight.Group
	now    func() time.Time
}

// NewPriceCache creates the process-wide price cache.
func NewPriceCache(source port.PriceSource, logger port.Logger, opts PriceCacheOptions) port.PriceService {
	return newPriceCache(source, logger, opts, time.Now)
}

func newPriceCache(source port.PriceSource, logger port.Logger, opts PriceCacheOptions, now func() time.Time) *priceCacheImpl {
	opts = opts.withDefaults()
	s := &priceCacheImpl{
		source: source,
		logger: logger,
		opts:   opts,
		// Expiration is always set per item, the default is never used.
		prices: cache.New(opts.SuccessTTL, opts.CleanupInterval),
		now:    now,
	}
	logger.Info("Price cache initialized",
		"success_ttl", opts.SuccessTTL.String(),
		"failure_ttl", opts.FailureTTL.String(),
		"refresh_after", opts.RefreshAfter.String())
	return s
}

func priceKey(baseCurrency, counterCurrency string) string {
	return baseCurrency + "/" + counterCurrency
}

// GetPrice implements port.PriceService.
func (s *priceCacheImpl) GetPrice(ctx context.Context, baseCurrency, counterCurrency string) *entity.CurrencyPrice {
	if baseCurrency == counterCurrency {
		metrics.PriceCacheLookups.WithLabelValues("same_currency").Inc()
		return &entity.CurrencyPrice{
			Price:           decimal.NewFromInt(1),
			BaseCurrency:    baseCurrency,
			CounterCurrency: counterCurrency,
			AsOfMillis:      s.now().UnixMilli(),
		}
	}

	key := priceKey(baseCurrency, counterCurrency)
	if entry, ok := s.cached(key); ok {
		metrics.PriceCacheLookups.WithLabelValues("hit").Inc()
		if entry.price != nil && s.now().Sub(entry.fetchedAt) >= s.opts.RefreshAfter {
			s.refreshAhead(ctx, baseCurrency, counterCurrency)
		}
		return entry.price
	}

	metrics.PriceCacheLookups.WithLabelValues("miss").Inc()
	v, _, _ := s.flight.Do(key, func() (any, error) {
		// Another caller may have filled the entry while this one waited for the flight.
		if entry, ok := s.cached(key); ok {
			return entry.price, nil
		}
		return s.load(context.WithoutCancel(ctx), baseCurrency, counterCurrency, false), nil
	})
	price, _ := v.(*entity.CurrencyPrice)
	return price
}

// GetValue implements port.PriceService.
func (s *priceCacheImpl) GetValue(ctx context.Context, baseCurrency, counterCurrency string, amount decimal.Decimal) decimal.NullDecimal {
	return s.GetPrice(ctx, baseCurrency, counterCurrency).ValueOf(amount)
}

// RefreshPrice implements port.PriceService. A failed refresh keeps a still valid
// price instead of replacing it with a failure marker.
func (s *priceCacheImpl) RefreshPrice(ctx context.Context, baseCurrency, counterCurrency string) {
	if baseCurrency == counterCurrency {
		return
	}
	key := priceKey(baseCurrency, counterCurrency)
	_, _, _ = s.flight.Do(key, func() (any, error) {
		return s.load(ctx, baseCurrency, counterCurrency, true), nil
	})
}

func (s *priceCacheImpl) refreshAhead(ctx context.Context, baseCurrency, counterCurrency string) {
	key := priceKey(baseCurrency, counterCurrency)
	bgCtx := context.WithoutCancel(ctx)
	// DoChan returns immediately; concurrent readers of a stale entry share one reload.
	s.flight.DoChan(key, func() (any, error) {
		s.logger.Debug("Refreshing price ahead of expiry", "pair", key)
		return s.load(bgCtx, baseCurrency, counterCurrency, true), nil
	})
}

func (s *priceCacheImpl) cached(key string) (priceEntry, bool) {
	v, ok := s.prices.Get(key)
	if !ok {
		return priceEntry{}, false
	}
	entry, ok := v.(priceEntry)
	return entry, ok
}

// load asks the source and stores the outcome. With keepOnFailure a failure leaves
// an existing successful entry untouched.
func (s *priceCacheImpl) load(ctx context.Context, baseCurrency, counterCurrency string, keepOnFailure bool) *entity.CurrencyPrice {
	key := priceKey(baseCurrency, counterCurrency)

	price, err := s.source.GetPrice(ctx, baseCurrency, counterCurrency)
	switch {
	case err != nil:
		metrics.PriceSourceFetches.WithLabelValues("error").Inc()
		s.logger.Error("Failed to fetch price", "pair", key, "error", err)
	case price == nil:
		metrics.PriceSourceFetches.WithLabelValues("empty").Inc()
		s.logger.Warn("Price source returned no price", "pair", key)
	default:
		metrics.PriceSourceFetches.WithLabelValues("success").Inc()
		s.prices.Set(key, priceEntry{price: price, fetchedAt: s.now()}, s.opts.SuccessTTL)
		s.logger.Debug("Cached price", "pair", key, "price", price.Price.String())
		return price
	}

	if keepOnFailure {
		if v, expiresAt, ok := s.prices.GetWithExpiration(key); ok {
			if entry, isEntry := v.(priceEntry); isEntry && entry.price != nil {
				// Keep the original expiry, postpone the next refresh-ahead attempt.
				ttl := s.opts.SuccessTTL
				if !expiresAt.IsZero() {
					ttl = time.Until(expiresAt)
				}
				if ttl > 0 {
					s.prices.Set(key, priceEntry{price: entry.price, fetchedAt: s.now()}, ttl)
				}
				return entry.price
			}
		}
	}
	s.prices.Set(key, priceEntry{fetchedAt: s.now()}, s.opts.FailureTTL)
	return nil
}
