package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"defi_assistant/internal/app/port"
	"defi_assistant/internal/config"
	"defi_assistant/internal/domain/entity"
	price_types "defi_assistant/internal/entity"
	"defi_assistant/internal/infrastructure/httpclient"
	"defi_assistant/internal/infrastructure/network/definition"
	"defi_assistant/internal/pkg/utils"

	"golang.org/x/time/rate"
)

// priceResolverImpl implements port.PriceResolver. It layers the day cache
// over two external lookup paths: batched native-id quotes and one-at-a-time
// contract lookups shaped by a rate limiter.
type priceResolverImpl struct {
	cache          port.PriceCache
	coins          httpclient.CoinPriceClient
	contracts      httpclient.ContractPriceClient
	logger         port.Logger
	maxPerBatch    int
	requestTimeout time.Duration
	// contractLimiter serializes contract lookups with a fixed inter-call
	// delay. This is a hard serialization point, not parallelizable.
	contractLimiter *rate.Limiter
}

// NewPriceResolver creates a new instance of priceResolverImpl.
func NewPriceResolver(
	cache port.PriceCache,
	coins httpclient.CoinPriceClient,
	contracts httpclient.ContractPriceClient,
	l port.Logger,
	cfg *config.Config,
) port.PriceResolver {
	delay := time.Duration(cfg.Pricing.ContractCallDelayMillis) * time.Millisecond
	return &priceResolverImpl{
		cache:           cache,
		coins:           coins,
		contracts:       contracts,
		logger:          l,
		maxPerBatch:     cfg.Pricing.MaxSymbolsPerBatch,
		requestTimeout:  time.Duration(cfg.Pricing.RequestTimeoutMillis) * time.Millisecond,
		contractLimiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// ResolvePrices implements port.PriceResolver.
func (s *priceResolverImpl) ResolvePrices(
	ctx context.Context,
	nativeSymbols []string,
	contractTokens map[string]entity.Token,
	chainID uint64,
) map[string]entity.PriceInfo {
	s.cache.CleanupIfStale()

	resolved := make(map[string]entity.PriceInfo)
	s.resolveNative(ctx, nativeSymbols, resolved)
	s.resolveContracts(ctx, contractTokens, chainID, resolved)

	s.logger.Debug("Price resolution finished",
		"native_symbols", len(nativeSymbols),
		"contract_tokens", len(contractTokens),
		"resolved", len(resolved))
	return resolved
}

// resolveNative prices native symbols through the symbol-based provider.
// Symbols without a canonical coin id are skipped; cached symbols never
// reach the provider; the rest are batched.
func (s *priceResolverImpl) resolveNative(ctx context.Context, symbols []string, resolved map[string]entity.PriceInfo) {
	// Several symbols may map to the same coin id (testnets reuse their
	// mainnet asset), so fan the quote back out per cache key.
	keysByCoinID := make(map[string][]string)

	for _, symbol := range symbols {
		key := entity.SymbolKey(symbol)
		if _, done := resolved[key]; done {
			continue
		}

		coinID, known := definition.NativeCoinID(symbol)
		if !known {
			s.logger.Debug("No canonical coin id for native symbol, skipping", "symbol", symbol)
			continue
		}

		if info, ok := s.cache.Get(key); ok {
			resolved[key] = info
			continue
		}
		keysByCoinID[coinID] = append(keysByCoinID[coinID], key)
	}

	if len(keysByCoinID) == 0 {
		return
	}

	coinIDs := make([]string, 0, len(keysByCoinID))
	for id := range keysByCoinID {
		coinIDs = append(coinIDs, id)
	}
	sort.Strings(coinIDs)

	for _, batch := range utils.BatchStrings(coinIDs, s.maxPerBatch) {
		callCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
		quotes, err := s.coins.SimplePrices(callCtx, batch)
		cancel()
		if err != nil {
			// The failure is contained to this batch; sibling batches and the
			// contract path still run.
			s.logger.Error("Native price batch failed", "coin_ids", batch, "error", err)
			continue
		}

		for _, coinID := range batch {
			quote, ok := quotes[coinID]
			if !ok {
				s.logger.Warn("Coin id missing from provider response", "coin_id", coinID)
				continue
			}
			info := entity.PriceInfo{
				USD:              quote.USD,
				MarketCap:        quote.USDMarketCap,
				PercentChange24h: quote.USD24hChange,
			}
			for _, key := range keysByCoinID[coinID] {
				resolved[key] = info
				s.cache.Set(key, info)
			}
		}
	}
}

// resolveContracts prices fungible tokens through the contract-based
// provider. The positive cache, the not-found cache and the invalid-trust
// cache are consulted in that order before any network lookup.
func (s *priceResolverImpl) resolveContracts(
	ctx context.Context,
	contractTokens map[string]entity.Token,
	chainID uint64,
	resolved map[string]entity.PriceInfo,
) {
	if len(contractTokens) == 0 {
		return
	}

	def, ok := definition.ByChainID(chainID)
	if !ok || def.PlatformID == "" {
		s.logger.Warn("No contract-price platform for chain, skipping contract path", "chain_id", chainID)
		return
	}

	addresses := make([]string, 0, len(contractTokens))
	for addr := range contractTokens {
		addresses = append(addresses, addr)
	}
	sort.Strings(addresses)

	for _, addr := range addresses {
		token := contractTokens[addr]
		lower := strings.ToLower(addr)
		key := entity.ContractKey(lower)

		if info, ok := s.cache.Get(key); ok {
			resolved[key] = info
			continue
		}
		if s.cache.IsNotFound(lower) {
			s.logger.Debug("Contract in not-found cache, skipping lookup", "contract", lower)
			continue
		}
		if s.cache.IsInvalidTrust(lower) {
			s.logger.Debug("Contract in invalid-trust cache, skipping lookup", "contract", lower)
			continue
		}

		if err := s.contractLimiter.Wait(ctx); err != nil {
			s.logger.Warn("Contract lookup loop cancelled", "error", err)
			return
		}

		callCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
		coin, err := s.contracts.CoinByContract(callCtx, def.PlatformID, lower)
		cancel()

		switch {
		case errors.Is(err, entity.ErrPriceNotFound):
			s.cache.MarkNotFound(lower, token.Symbol)
			continue
		case err != nil:
			// Contained: this contract stays unpriced, siblings proceed.
			s.logger.Error("Contract price lookup failed", "contract", lower, "symbol", token.Symbol, "error", err)
			continue
		}

		if accepted, reason := trustAccepted(coin); !accepted {
			s.logger.Warn("Contract rejected by trust filter",
				"contract", lower, "symbol", token.Symbol, "reason", reason)
			s.cache.MarkInvalidTrust(lower, token.Symbol, reason)
			continue
		}

		info := priceInfoFromCoin(coin, def.PlatformID)
		resolved[key] = info
		s.cache.Set(key, info)
	}
}

// trustAccepted applies the ticker trust filter: a coin with tickers is
// accepted only when at least half of them report a "green" trust score.
// Coins without tickers carry no market evidence either way and pass.
func trustAccepted(coin *price_types.ContractCoin) (bool, string) {
	total := len(coin.Tickers)
	if total == 0 {
		return true, ""
	}

	green := 0
	for _, t := range coin.Tickers {
		if t.TrustScore == "green" {
			green++
		}
	}
	if green*2 >= total {
		return true, ""
	}
	return false, fmt.Sprintf("%d/%d green tickers", green, total)
}

// priceInfoFromCoin flattens the contract lookup into a PriceInfo, including
// the authoritative metadata only this path can provide.
func priceInfoFromCoin(coin *price_types.ContractCoin, platformID string) entity.PriceInfo {
	info := entity.PriceInfo{
		USD:              coin.MarketData.CurrentPrice["usd"],
		MarketCap:        coin.MarketData.MarketCap["usd"],
		PercentChange24h: coin.MarketData.PriceChangePercentage24h,
		Symbol:           strings.ToUpper(coin.Symbol),
		Name:             coin.Name,
		Logo:             coin.Image.Small,
	}
	if platform, ok := coin.DetailPlatforms[platformID]; ok && platform.DecimalPlace > 0 {
		info.Decimals = uint8(platform.DecimalPlace)
	}
	return info
}
