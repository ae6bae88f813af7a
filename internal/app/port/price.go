package port

import (
	"context"

	"defi_assistant/internal/domain/entity"
)

// PriceCache is the day-scoped persistent price store. All operations are
// synchronous and safe for concurrent callers.
type PriceCache interface {
	Get(key string) (entity.PriceInfo, bool)
	Set(key string, info entity.PriceInfo)
	IsNotFound(contractAddress string) bool
	MarkNotFound(contractAddress, symbolHint string)
	IsInvalidTrust(contractAddress string) bool
	MarkInvalidTrust(contractAddress, symbolHint, reason string)
	// CleanupIfStale discards every map and resets the date when the stored
	// day no longer matches the current one.
	CleanupIfStale()
}

// PriceResolver performs the layered price lookup for a deduplicated token
// set. Failures of individual external calls are contained: affected keys
// are simply absent from the returned map.
type PriceResolver interface {
	ResolvePrices(ctx context.Context, nativeSymbols []string, contractTokens map[string]entity.Token, chainID uint64) map[string]entity.PriceInfo
}
