package entity

// PriceInfo is a resolved USD quote for a single token identity.
// Symbol, Name, Logo and Decimals are only populated for contract-resolved
// lookups, where the price provider also returns authoritative metadata.
type PriceInfo struct {
	USD              float64 `json:"usd"`
	MarketCap        float64 `json:"market_cap"`
	PercentChange24h float64 `json:"percent_change_24h"`
	Symbol           string  `json:"symbol,omitempty"`
	Name             string  `json:"name,omitempty"`
	Logo             string  `json:"logo,omitempty"`
	Decimals         uint8   `json:"decimals,omitempty"`
}

// NotFoundEntry records a contract address the price provider reported as
// unknown, so the lookup is not repeated within the same day.
type NotFoundEntry struct {
	Timestamp int64  `json:"timestamp"`
	Symbol    string `json:"symbol"`
}

// InvalidTrustEntry records a contract address whose market tickers failed
// the trust filter, together with the reason it was rejected.
type InvalidTrustEntry struct {
	Timestamp int64  `json:"timestamp"`
	Symbol    string `json:"symbol"`
	TrustInfo string `json:"trustInfo"`
}

// CacheEntry is the persisted shape of the daily price cache file.
// Date is the validity key: whenever it no longer equals the current day
// the whole entry is discarded, there is no per-key expiry.
type CacheEntry struct {
	Date         string                       `json:"date"`
	Tokens       map[string]PriceInfo         `json:"tokens"`
	NotFound     map[string]NotFoundEntry     `json:"notFound"`
	InvalidTrust map[string]InvalidTrustEntry `json:"invalidTrust"`
}

// NewCacheEntry returns an empty cache entry scoped to the given day.
func NewCacheEntry(date string) CacheEntry {
	return CacheEntry{
		Date:         date,
		Tokens:       make(map[string]PriceInfo),
		NotFound:     make(map[string]NotFoundEntry),
		InvalidTrust: make(map[string]InvalidTrustEntry),
	}
}
