package httpclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"defi_assistant/internal/domain/entity"
	price_types "defi_assistant/internal/entity"
	"defi_assistant/pkg/metrics"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// ContractPriceClient resolves a single contract address to market data and
// ticker trust scores (provider B, the contract-based path). A provider 404
// is surfaced as entity.ErrPriceNotFound so callers can negative-cache it.
type ContractPriceClient interface {
	CoinByContract(ctx context.Context, platformID, contractAddress string) (*price_types.ContractCoin, error)
}

// contractPriceClientImpl is the implementation of ContractPriceClient.
type contractPriceClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewContractPriceClient creates a new instance of contractPriceClientImpl.
func NewContractPriceClient(baseURL string, timeout time.Duration, logger *zap.Logger) ContractPriceClient {
	return &contractPriceClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("ContractPriceClient"),
	}
}

// CoinByContract implements the ContractPriceClient interface.
func (c *contractPriceClientImpl) CoinByContract(ctx context.Context, platformID, contractAddress string) (*price_types.ContractCoin, error) {
	if platformID == "" || contractAddress == "" {
		return nil, fmt.Errorf("platformID and contractAddress are required")
	}

	requestURL := fmt.Sprintf("%s/coins/%s/contract/%s", c.baseURL, platformID, strings.ToLower(contractAddress))
	c.logger.Debug("Requesting contract coin info", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		metrics.PriceProviderCalls.WithLabelValues("contract", "error").Inc()
		c.logger.Error("Contract coin request failed", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	rawBody := resp.Body()
	switch resp.StatusCode() {
	case fasthttp.StatusOK:
		// fallthrough to decoding
	case fasthttp.StatusNotFound:
		metrics.PriceProviderCalls.WithLabelValues("contract", "not_found").Inc()
		c.logger.Debug("Contract unknown to price provider",
			zap.String("platform", platformID), zap.String("contract", contractAddress))
		return nil, fmt.Errorf("%w: %s on %s", entity.ErrPriceNotFound, contractAddress, platformID)
	default:
		metrics.PriceProviderCalls.WithLabelValues("contract", "error").Inc()
		c.logger.Error("Contract price provider returned non-OK status",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("contract coin request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	var coin price_types.ContractCoin
	if err := json.Unmarshal(rawBody, &coin); err != nil {
		metrics.PriceProviderCalls.WithLabelValues("contract", "error").Inc()
		c.logger.Error("Failed to unmarshal contract coin response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal contract coin response from %s: %w", requestURL, err)
	}

	metrics.PriceProviderCalls.WithLabelValues("contract", "ok").Inc()
	return &coin, nil
}
