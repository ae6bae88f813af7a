package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// BalanceRPCCalls counts JSON-RPC calls to the blockchain provider,
	// labelled by method and outcome.
	BalanceRPCCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "defi_assistant_balance_rpc_calls_total",
			Help: "JSON-RPC calls issued to the blockchain provider.",
		},
		[]string{"method", "status"},
	)

	// PriceProviderCalls counts external price provider calls, labelled by
	// provider (symbol or contract path) and outcome.
	PriceProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "defi_assistant_price_provider_calls_total",
			Help: "External price provider calls.",
		},
		[]string{"provider", "status"},
	)

	// PriceCacheLookups counts daily price cache lookups, labelled by cache
	// (tokens, not_found, invalid_trust) and result (hit, miss).
	PriceCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "defi_assistant_price_cache_lookups_total",
			Help: "Daily price cache lookups.",
		},
		[]string{"cache", "result"},
	)

	// WalletFetches counts per-address balance fetches, labelled by outcome.
	WalletFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "defi_assistant_wallet_fetches_total",
			Help: "Per-address balance fetch attempts.",
		},
		[]string{"status"},
	)
)

// MustRegisterMetrics registers every collector with the default registry.
// Call once at startup.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		BalanceRPCCalls,
		PriceProviderCalls,
		PriceCacheLookups,
		WalletFetches,
	)
}
