package port

import (
	"context"

	"defi_assistant/internal/domain/entity"
)

// WalletService aggregates priced token inventories for a set of addresses.
type WalletService interface {
	// PriceWallets fans out balance fetches across all addresses, resolves
	// one price per distinct token identity and returns one WalletResult per
	// requested address, in request order. Partial failures never surface as
	// an error; they shrink the affected wallet's token list instead.
	PriceWallets(ctx context.Context, chainID uint64, addresses []string) []entity.WalletResult
}
