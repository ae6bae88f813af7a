package httpclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"defi_assistant/internal/domain/entity"
	price_types "defi_assistant/internal/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// SwapRouterClient forwards quote requests to the external exchange router.
type SwapRouterClient interface {
	// Quote returns the upstream HTTP status together with the decoded
	// router envelope. Transport and decoding failures return an error.
	Quote(ctx context.Context, req entity.SwapQuoteRequest) (int, *price_types.RouterQuoteResponse, error)
}

// swapRouterClientImpl is the implementation of SwapRouterClient.
type swapRouterClientImpl struct {
	client    *fasthttp.Client
	baseURL   string
	apiKey    string
	uniquePID string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewSwapRouterClient creates a new instance of swapRouterClientImpl.
func NewSwapRouterClient(baseURL, apiKey, uniquePID string, timeout time.Duration, logger *zap.Logger) SwapRouterClient {
	return &swapRouterClientImpl{
		client:    &fasthttp.Client{},
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		uniquePID: uniquePID,
		timeout:   timeout,
		logger:    logger.Named("SwapRouterClient"),
	}
}

// routerQuotePayload mirrors the router's expected request body, including
// the fixed flags the integration always sends.
type routerQuotePayload struct {
	ChainID            string  `json:"chainID"`
	InputToken         string  `json:"inputToken"`
	OutputToken        string  `json:"outputToken"`
	InputAmount        string  `json:"inputAmount"`
	UserAddress        string  `json:"userAddress"`
	OutputReceiver     string  `json:"outputReceiver"`
	Slippage           float64 `json:"slippage"`
	UniquePID          string  `json:"uniquePID"`
	IsPermit2          bool    `json:"isPermit2"`
	ComputeStable      bool    `json:"computeStable"`
	ComputeEstimate    bool    `json:"computeEstimate"`
	ActivateSurplusFee bool    `json:"activateSurplusFee"`
}

// Quote implements the SwapRouterClient interface.
func (c *swapRouterClientImpl) Quote(ctx context.Context, quoteReq entity.SwapQuoteRequest) (int, *price_types.RouterQuoteResponse, error) {
	requestURL := c.baseURL + "/v1/quote"

	payload := routerQuotePayload{
		ChainID:         quoteReq.ChainID,
		InputToken:      quoteReq.InputToken,
		OutputToken:     quoteReq.OutputToken,
		InputAmount:     quoteReq.InputAmount,
		UserAddress:     quoteReq.UserAddress,
		OutputReceiver:  quoteReq.UserAddress,
		Slippage:        quoteReq.Slippage,
		UniquePID:       c.uniquePID,
		ComputeStable:   true,
		ComputeEstimate: true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal quote payload: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("x-api-key", c.apiKey)
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Swap router request failed", zap.String("url", requestURL), zap.Error(err))
		return 0, nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	status := resp.StatusCode()
	rawBody := resp.Body()
	c.logger.Debug("Swap router responded", zap.Int("statusCode", status), zap.Int("bodyBytes", len(rawBody)))

	var envelope price_types.RouterQuoteResponse
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		c.logger.Error("Failed to unmarshal swap router response",
			zap.String("url", requestURL),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return status, nil, fmt.Errorf("failed to unmarshal swap router response from %s: %w", requestURL, err)
	}

	return status, &envelope, nil
}
