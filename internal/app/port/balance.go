package port

import (
	"context"

	"defi_assistant/internal/domain/entity"
)

// BalanceFetcher retrieves the token inventory of a single address on a
// single chain. Implementations are pure I/O against a blockchain RPC
// provider.
type BalanceFetcher interface {
	// FetchAddressTokens returns the native and fungible balances held by
	// address on chainID, decimal-adjusted and with zero balances dropped.
	// An unsupported chainID fails with entity.UnsupportedChainError; network
	// failures inside one step are contained and yield a partial result.
	FetchAddressTokens(ctx context.Context, chainID uint64, address string) ([]entity.Token, error)
}
