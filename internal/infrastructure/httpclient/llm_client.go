package httpclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	price_types "defi_assistant/internal/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// LLMClient performs the single generate-content call used for
// transaction-intent extraction.
type LLMClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// llmClientImpl is the implementation of LLMClient.
type llmClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	model   string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewLLMClient creates a new instance of llmClientImpl.
func NewLLMClient(baseURL, model, apiKey string, timeout time.Duration, logger *zap.Logger) LLMClient {
	return &llmClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("LLMClient"),
	}
}

// GenerateContent implements the LLMClient interface.
func (c *llmClientImpl) GenerateContent(ctx context.Context, prompt string) (string, error) {
	requestURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	payload := price_types.GenerateContentRequest{
		Contents: []price_types.LLMContent{
			{Parts: []price_types.LLMPart{{Text: prompt}}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate-content payload: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("LLM request failed", zap.String("model", c.model), zap.Error(err))
		return "", fmt.Errorf("failed to execute LLM request: %w", err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("LLM returned non-OK status",
			zap.String("model", c.model),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return "", fmt.Errorf("LLM request failed with status %d", resp.StatusCode())
	}

	var out price_types.GenerateContentResponse
	if err := json.Unmarshal(rawBody, &out); err != nil {
		return "", fmt.Errorf("failed to unmarshal LLM response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("LLM response contained no candidates")
	}

	return out.Candidates[0].Content.Parts[0].Text, nil
}
