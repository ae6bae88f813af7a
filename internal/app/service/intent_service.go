package service

import (
	"context"
	"fmt"
	"strings"

	"defi_assistant/internal/app/port"
	"defi_assistant/internal/domain/entity"
	"defi_assistant/internal/infrastructure/httpclient"

	jsoniter "github.com/json-iterator/go"
)

var intentJSON = jsoniter.ConfigCompatibleWithStandardLibrary

const intentPromptTemplate = `You are a DeFi transaction assistant. Extract transaction intent from the user's message and respond ONLY with a JSON object of this exact shape:
{
  "response": "<short natural-language reply to the user>",
  "transaction_data": {
    "transaction_type": "send|multisend|swap|",
    "chain": "<chain name or empty>",
    "token_type": "<token symbol or empty>",
    "amount": "<amount as string or empty>",
    "destination_wallet_address": "<address or empty>",
    "multi_send_wallets": [{"destination_wallet_address": "...", "destination_wallet_amount": "..."}],
    "source_wallet_address": "<address or empty>",
    "source_token": "<token symbol or empty>",
    "receive_token": "<token symbol or empty>",
    "slippage_tolerance": "<percentage as string or empty>"
  }
}
Rules: only fill fields the user explicitly stated in this message. Leave everything else empty. Never invent addresses or amounts. If a field was already extracted earlier it is listed below; ask the user for whichever required fields are still missing in your reply.

Current transaction state: %s
Wallet context: %s

User message: %s`

// IntentServiceImpl implements port.IntentService: it turns free-form chat
// into an incrementally filled transaction record via the language model.
type IntentServiceImpl struct {
	llm    httpclient.LLMClient
	logger port.Logger
}

// NewIntentService creates a new instance of IntentServiceImpl.
func NewIntentService(llm httpclient.LLMClient, l port.Logger) port.IntentService {
	return &IntentServiceImpl{llm: llm, logger: l}
}

// ProcessMessage sends one conversational turn to the model and merges the
// extracted fields into the carried-over transaction record. Model failures
// degrade to a fallback reply with the record unchanged.
func (s *IntentServiceImpl) ProcessMessage(ctx context.Context, req entity.ChatRequest) entity.ChatResponse {
	existing := entity.TransactionData{}
	if req.TransactionData != nil {
		existing = *req.TransactionData
	}

	prompt := buildIntentPrompt(req.Message, existing, req.WalletData)

	raw, err := s.llm.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Error("Intent extraction call failed", "error", err)
		return fallbackResponse(existing)
	}

	var parsed struct {
		Response        string                 `json:"response"`
		TransactionData entity.TransactionData `json:"transaction_data"`
	}
	if err := intentJSON.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
		s.logger.Warn("Model returned unparseable intent payload", "error", err, "payload_len", len(raw))
		return fallbackResponse(existing)
	}

	merged := mergeTransactionData(existing, parsed.TransactionData)
	s.logger.Debug("Extracted transaction intent", "type", merged.TransactionType, "chain", merged.Chain)

	return entity.ChatResponse{
		Response:        parsed.Response,
		TransactionData: merged,
		Status:          "success",
	}
}

func buildIntentPrompt(message string, existing entity.TransactionData, walletData map[string]any) string {
	state, err := intentJSON.MarshalToString(existing)
	if err != nil {
		state = "{}"
	}
	wallets := "{}"
	if len(walletData) > 0 {
		if encoded, err := intentJSON.MarshalToString(walletData); err == nil {
			wallets = encoded
		}
	}
	return fmt.Sprintf(intentPromptTemplate, state, wallets, message)
}

// stripCodeFences unwraps a payload the model wrapped in markdown fences.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// mergeTransactionData folds newly extracted fields into the carried-over
// record: a non-empty new value wins, an empty one keeps the old value.
// A multisend or swap intent has no single destination, so switching to
// either type clears it.
func mergeTransactionData(existing, extracted entity.TransactionData) entity.TransactionData {
	merged := existing

	pick := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	pick(&merged.TransactionType, extracted.TransactionType)
	pick(&merged.Chain, extracted.Chain)
	pick(&merged.TokenType, extracted.TokenType)
	pick(&merged.Amount, extracted.Amount)
	pick(&merged.DestinationWalletAddress, extracted.DestinationWalletAddress)
	pick(&merged.SourceWalletAddress, extracted.SourceWalletAddress)
	pick(&merged.SourceToken, extracted.SourceToken)
	pick(&merged.ReceiveToken, extracted.ReceiveToken)
	pick(&merged.SlippageTolerance, extracted.SlippageTolerance)

	if len(extracted.MultiSendWallets) > 0 {
		merged.MultiSendWallets = extracted.MultiSendWallets
	}
	if merged.TransactionType == "multisend" || merged.TransactionType == "swap" {
		merged.DestinationWalletAddress = ""
	}
	return merged
}

func fallbackResponse(existing entity.TransactionData) entity.ChatResponse {
	return entity.ChatResponse{
		Response:        "Sorry, I could not process that request right now. Please try again.",
		TransactionData: existing,
		Status:          "error",
	}
}
