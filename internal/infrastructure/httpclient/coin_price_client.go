package httpclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	price_types "defi_assistant/internal/entity"
	"defi_assistant/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CoinPriceClient fetches USD quotes for canonical coin identifiers in one
// batched call (provider A, the symbol-based path).
type CoinPriceClient interface {
	SimplePrices(ctx context.Context, coinIDs []string) (price_types.SimplePriceResponse, error)
}

// coinPriceClientImpl is the implementation of CoinPriceClient.
type coinPriceClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewCoinPriceClient creates a new instance of coinPriceClientImpl.
func NewCoinPriceClient(baseURL string, timeout time.Duration, logger *zap.Logger) CoinPriceClient {
	return &coinPriceClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("CoinPriceClient"),
	}
}

// SimplePrices implements the CoinPriceClient interface.
func (c *coinPriceClientImpl) SimplePrices(ctx context.Context, coinIDs []string) (price_types.SimplePriceResponse, error) {
	if len(coinIDs) == 0 {
		return nil, fmt.Errorf("coinIDs cannot be empty")
	}

	requestURL := fmt.Sprintf(
		"%s/simple/price?ids=%s&vs_currencies=usd&include_market_cap=true&include_24hr_change=true",
		c.baseURL, strings.Join(coinIDs, ","),
	)
	c.logger.Debug("Requesting coin prices", zap.String("url", requestURL), zap.Int("coinCount", len(coinIDs)))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := c.do(ctx, req, resp); err != nil {
		metrics.PriceProviderCalls.WithLabelValues("coin", "error").Inc()
		c.logger.Error("Coin price request failed", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		metrics.PriceProviderCalls.WithLabelValues("coin", "error").Inc()
		c.logger.Error("Coin price provider returned non-OK status",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("coin price request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	var quotes price_types.SimplePriceResponse
	if err := json.Unmarshal(rawBody, &quotes); err != nil {
		metrics.PriceProviderCalls.WithLabelValues("coin", "error").Inc()
		c.logger.Error("Failed to unmarshal coin price response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal coin price response from %s: %w", requestURL, err)
	}

	metrics.PriceProviderCalls.WithLabelValues("coin", "ok").Inc()
	c.logger.Debug("Coin prices fetched", zap.Int("requested", len(coinIDs)), zap.Int("returned", len(quotes)))
	return quotes, nil
}

// do executes the request honoring the caller's context deadline when set,
// falling back to the configured client timeout.
func (c *coinPriceClientImpl) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if deadline, ok := ctx.Deadline(); ok {
		return c.client.DoDeadline(req, resp, deadline)
	}
	return c.client.DoTimeout(req, resp, c.timeout)
}
