package port

import (
	"context"

	"defi_assistant/internal/domain/entity"
)

// IntentService fills the transaction-intent record from a conversational
// message via a single external language-model call.
type IntentService interface {
	ProcessMessage(ctx context.Context, req entity.ChatRequest) entity.ChatResponse
}
