package service

import (
	"context"
	"strings"
	"time"

	"defi_assistant/internal/app/port"
	"defi_assistant/internal/config"
	"defi_assistant/internal/domain/entity"
	"defi_assistant/internal/infrastructure/network/definition"
	"defi_assistant/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

// WalletServiceImpl implements port.WalletService. It fans balance fetches
// out across the requested addresses, resolves prices for the deduplicated
// token set in one pass, then merges prices back into each wallet.
type WalletServiceImpl struct {
	fetcher       port.BalanceFetcher
	resolver      port.PriceResolver
	logger        port.Logger
	maxConcurrent int
	fetchTimeout  time.Duration
}

// NewWalletService creates a new instance of WalletServiceImpl.
func NewWalletService(
	fetcher port.BalanceFetcher,
	resolver port.PriceResolver,
	l port.Logger,
	cfg *config.Config,
) port.WalletService {
	maxConcurrent := cfg.Aggregator.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &WalletServiceImpl{
		fetcher:       fetcher,
		resolver:      resolver,
		logger:        l,
		maxConcurrent: maxConcurrent,
		fetchTimeout:  time.Duration(cfg.Aggregator.BalanceFetchTimeoutSeconds) * time.Second,
	}
}

// PriceWallets fetches holdings for every address on the given chain and
// attaches USD valuations. Every requested address gets a result slot in
// request order; an address whose fetch fails contributes an empty list.
func (s *WalletServiceImpl) PriceWallets(ctx context.Context, chainID uint64, addresses []string) []entity.WalletResult {
	s.logger.Info("Pricing wallets", "chain_id", chainID, "addresses", len(addresses))

	results := make([]entity.WalletResult, len(addresses))

	g, fetchCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, address := range addresses {
		g.Go(func() error {
			results[i] = s.fetchWallet(fetchCtx, chainID, address)
			return nil
		})
	}
	// Workers never return errors; failures are recorded per wallet.
	_ = g.Wait()

	nativeSymbols, contractTokens := collectUniqueTokens(results)
	prices := s.resolver.ResolvePrices(ctx, nativeSymbols, contractTokens, chainID)

	for i := range results {
		results[i].Tokens = mergePrices(results[i].Tokens, prices)
	}

	s.logger.Info("Finished pricing wallets", "chain_id", chainID, "addresses", len(addresses))
	return results
}

// fetchWallet fetches one wallet's holdings under its own deadline. Fetch
// failures are contained here: the wallet keeps its result slot with an
// empty token list.
func (s *WalletServiceImpl) fetchWallet(ctx context.Context, chainID uint64, address string) entity.WalletResult {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	tokens, err := s.fetcher.FetchAddressTokens(fetchCtx, chainID, address)
	if err != nil {
		s.logger.Error("Failed to fetch wallet tokens", "address", address, "chain_id", chainID, "error", err)
		metrics.WalletFetches.WithLabelValues("error").Inc()
		return entity.WalletResult{Address: address, Tokens: []entity.Token{}}
	}

	metrics.WalletFetches.WithLabelValues("success").Inc()
	return entity.WalletResult{Address: address, Tokens: tokens}
}

// collectUniqueTokens deduplicates holdings across wallets into the inputs
// the price resolver needs: the set of native symbols and the contract
// tokens keyed by lowercased address.
func collectUniqueTokens(results []entity.WalletResult) ([]string, map[string]entity.Token) {
	nativeSeen := make(map[string]struct{})
	var nativeSymbols []string
	contractTokens := make(map[string]entity.Token)

	for _, result := range results {
		for _, token := range result.Tokens {
			if token.IsNative {
				key := entity.SymbolKey(token.Symbol)
				if _, ok := nativeSeen[key]; !ok {
					nativeSeen[key] = struct{}{}
					nativeSymbols = append(nativeSymbols, token.Symbol)
				}
				continue
			}
			lower := strings.ToLower(token.ContractAddress)
			if _, ok := contractTokens[lower]; !ok {
				contractTokens[lower] = token
			}
		}
	}

	return nativeSymbols, contractTokens
}

// mergePrices attaches resolved prices to a wallet's tokens and drops the
// ones that should not reach the response: contract tokens without a price,
// and native tokens whose asset is priceable yet came back without a quote.
func mergePrices(tokens []entity.Token, prices map[string]entity.PriceInfo) []entity.Token {
	merged := make([]entity.Token, 0, len(tokens))
	for _, token := range tokens {
		info, priced := prices[token.PriceKey()]
		if !priced {
			if token.IsNative {
				if _, priceable := definition.NativeCoinID(token.Symbol); !priceable {
					// Asset has no canonical quote source; keep it unpriced.
					merged = append(merged, token)
				}
				continue
			}
			continue
		}

		token.PriceUSD = info.USD
		token.PriceChange24h = info.PercentChange24h
		token.MarketCapUSD = info.MarketCap
		token.TotalValueUSD = token.Balance * info.USD
		if info.Logo != "" && token.Logo == "" {
			token.Logo = info.Logo
		}
		merged = append(merged, token)
	}
	return merged
}
