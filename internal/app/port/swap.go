package port

import (
	"context"

	"defi_assistant/internal/domain/entity"
)

// SwapService produces swap quotes by passing requests through to the
// external exchange router.
type SwapService interface {
	Quote(ctx context.Context, req entity.SwapQuoteRequest) entity.SwapQuoteResponse
}
