package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "balance_aggregator"

var (
	// PriceCacheLookups counts price lookups by outcome: hit, miss, same_currency.
	PriceCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "price_cache",
		Name:      "lookups_total",
		Help:      "Price cache lookups by outcome.",
	}, []string{"outcome"})

	// PriceSourceFetches counts calls to the raw price source by result: success, empty, error.
	PriceSourceFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "price_source",
		Name:      "fetches_total",
		Help:      "Price source fetches by result.",
	}, []string{"result"})

	// PriceRefreshCycles counts scheduler cycles by status: ok, failed.
	PriceRefreshCycles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "price_refresh",
		Name:      "cycles_total",
		Help:      "Price refresh scheduler cycles by status.",
	}, []string{"status"})

	PriceRefreshCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "price_refresh",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a price refresh cycle.",
		Buckets:   prometheus.DefBuckets,
	})

	// WalletBalanceRefreshes counts balance fetches by source (blockchain, exchange) and result.
	WalletBalanceRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wallet",
		Name:      "balance_refreshes_total",
		Help:      "Wallet balance fetches by source and result.",
	}, []string{"source", "result"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

var registerOnce sync.Once

// MustRegisterMetrics registers every collector with the default registry. Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PriceCacheLookups,
			PriceSourceFetches,
			PriceRefreshCycles,
			PriceRefreshCycleDuration,
			WalletBalanceRefreshes,
			HTTPRequestDuration,
		)
	})
}
