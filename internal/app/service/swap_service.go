package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"defi_assistant/internal/app/port"
	"defi_assistant/internal/config"
	"defi_assistant/internal/domain/entity"
	price_types "defi_assistant/internal/entity"
	"defi_assistant/internal/infrastructure/httpclient"

	gocache "github.com/patrickmn/go-cache"
)

// SwapServiceImpl implements port.SwapService. Quotes are memoized briefly
// so a frontend re-render does not hammer the router.
type SwapServiceImpl struct {
	router httpclient.SwapRouterClient
	logger port.Logger
	quotes *gocache.Cache
}

// NewSwapService creates a new instance of SwapServiceImpl.
func NewSwapService(router httpclient.SwapRouterClient, l port.Logger, cfg *config.Config) port.SwapService {
	ttl := time.Duration(cfg.Swap.QuoteCacheTTLSeconds) * time.Second
	return &SwapServiceImpl{
		router: router,
		logger: l,
		quotes: gocache.New(ttl, 2*ttl),
	}
}

// Quote fetches a swap quote from the router and reshapes it into a signable
// transaction skeleton. Router-side failures are passed through with the
// upstream status code instead of being converted into transport errors.
func (s *SwapServiceImpl) Quote(ctx context.Context, req entity.SwapQuoteRequest) entity.SwapQuoteResponse {
	cacheKey := quoteCacheKey(req)
	if cached, ok := s.quotes.Get(cacheKey); ok {
		s.logger.Debug("Serving memoized swap quote", "key", cacheKey)
		return cached.(entity.SwapQuoteResponse)
	}

	status, quote, err := s.router.Quote(ctx, req)
	if err != nil {
		s.logger.Error("Swap quote request failed", "input", req.InputToken, "output", req.OutputToken, "error", err)
		return entity.SwapQuoteResponse{
			Status: 502,
			Result: map[string]any{"error": "swap router unavailable"},
		}
	}

	if status != 200 || quote.Result == nil {
		s.logger.Warn("Swap router rejected quote", "status", status, "router_status", quote.StatusCode, "error", quote.Error)
		return entity.SwapQuoteResponse{
			Status: status,
			Result: map[string]any{"error": quote.Error},
		}
	}

	response := entity.SwapQuoteResponse{
		Status: status,
		Result: transactionFromQuote(quote.Result),
	}
	s.quotes.SetDefault(cacheKey, response)
	return response
}

// transactionFromQuote maps the raw router quote onto the transaction
// skeleton the frontend signs.
func transactionFromQuote(result *price_types.RouterQuoteResult) entity.SwapTransaction {
	tx := entity.SwapTransaction{
		InputAmount:              result.InputAmount,
		OutputAmount:             result.OutputAmount,
		EffectiveInputAmount:     result.EffectiveInputAmount,
		EffectiveOutputAmount:    result.EffectiveOutputAmount,
		MinOutputAmount:          result.MinOutputAmount,
		InputAmountUSD:           result.InputAmountUSD,
		OutputAmountUSD:          result.OutputAmountUSD,
		EffectiveInputAmountUSD:  result.EffectiveInputAmountUSD,
		EffectiveOutputAmountUSD: result.EffectiveOutputAmountUSD,
		EstimatedNetSurplus:      result.EstimatedNetSurplus,
		To:                       result.Router,
		Data:                     result.Calldata,
		Value:                    hexQuantity(result.Value),
		GasLimit:                 result.ComputationUnits,
		GasPrice:                 result.GasPrice.String(),
	}
	if tx.GasLimit <= 0 {
		tx.GasLimit = 2000000
	}
	// A zero gas price means the router left it unset; pass it through empty
	// so the wallet estimates its own.
	if tx.GasPrice == "0" {
		tx.GasPrice = ""
	}
	return tx
}

// hexQuantity renders a router-side decimal quantity as the 0x-prefixed hex
// string wallets expect in the transaction value field. Quantities are wei
// amounts, so they do not fit native integers.
func hexQuantity(n json.Number) string {
	if n == "" {
		return "0x0"
	}
	v, ok := new(big.Int).SetString(n.String(), 10)
	if !ok || v.Sign() < 0 {
		return "0x0"
	}
	return "0x" + v.Text(16)
}

func quoteCacheKey(req entity.SwapQuoteRequest) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%g",
		req.ChainID, req.InputToken, req.OutputToken, req.InputAmount, req.UserAddress, req.Slippage)
}
