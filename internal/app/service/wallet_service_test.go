package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"defi_assistant/internal/config"
	"defi_assistant/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu     sync.Mutex
	calls  int
	tokens map[string][]entity.Token
	errs   map[string]error
}

func (f *fakeFetcher) FetchAddressTokens(_ context.Context, _ uint64, address string) ([]entity.Token, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.errs[address]; ok {
		return nil, err
	}
	return f.tokens[address], nil
}

type fakeResolver struct {
	calls        int
	gotNative    []string
	gotContracts map[string]entity.Token
	prices       map[string]entity.PriceInfo
}

func (f *fakeResolver) ResolvePrices(_ context.Context, nativeSymbols []string, contractTokens map[string]entity.Token, _ uint64) map[string]entity.PriceInfo {
	f.calls++
	f.gotNative = nativeSymbols
	f.gotContracts = contractTokens
	return f.prices
}

func aggregatorConfig() *config.Config {
	return &config.Config{
		Aggregator: config.AggregatorConfig{
			MaxConcurrentRequests:      4,
			BalanceFetchTimeoutSeconds: 5,
		},
	}
}

func TestPriceWalletsValuation(t *testing.T) {
	addr := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	fetcher := &fakeFetcher{tokens: map[string][]entity.Token{
		addr: {{Symbol: "ETH", Balance: 2.5, IsNative: true, Decimals: 18}},
	}}
	resolver := &fakeResolver{prices: map[string]entity.PriceInfo{
		"eth": {USD: 3000, MarketCap: 360e9, PercentChange24h: 1.2},
	}}
	svc := NewWalletService(fetcher, resolver, nopLogger{}, aggregatorConfig())

	results := svc.PriceWallets(context.Background(), 1, []string{addr})

	require.Len(t, results, 1)
	require.Len(t, results[0].Tokens, 1)
	token := results[0].Tokens[0]
	assert.Equal(t, 3000.0, token.PriceUSD)
	assert.Equal(t, 7500.0, token.TotalValueUSD)
	assert.Equal(t, 1.2, token.PriceChange24h)
}

func TestPriceWalletsResultPerAddressInRequestOrder(t *testing.T) {
	a := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	b := "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	c := "0xcccccccccccccccccccccccccccccccccccccccc"
	fetcher := &fakeFetcher{
		tokens: map[string][]entity.Token{
			a: {{Symbol: "ETH", Balance: 1, IsNative: true}},
			c: {{Symbol: "ETH", Balance: 2, IsNative: true}},
		},
		errs: map[string]error{b: fmt.Errorf("rpc unreachable")},
	}
	resolver := &fakeResolver{prices: map[string]entity.PriceInfo{"eth": {USD: 3000}}}
	svc := NewWalletService(fetcher, resolver, nopLogger{}, aggregatorConfig())

	results := svc.PriceWallets(context.Background(), 1, []string{a, b, c})

	require.Len(t, results, 3)
	assert.Equal(t, a, results[0].Address)
	assert.Equal(t, b, results[1].Address)
	assert.Equal(t, c, results[2].Address)

	// The failed wallet keeps its slot with an empty token list.
	assert.Empty(t, results[1].Tokens)
	assert.Len(t, results[0].Tokens, 1)
	assert.Len(t, results[2].Tokens, 1)
}

func TestPriceWalletsDeduplicatesAcrossWallets(t *testing.T) {
	a := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	b := "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	usdc := "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	fetcher := &fakeFetcher{tokens: map[string][]entity.Token{
		a: {
			{Symbol: "ETH", Balance: 1, IsNative: true},
			{Symbol: "USDC", Balance: 100, ContractAddress: usdc},
		},
		b: {
			{Symbol: "ETH", Balance: 2, IsNative: true},
			{Symbol: "USDC", Balance: 50, ContractAddress: usdc},
		},
	}}
	resolver := &fakeResolver{prices: map[string]entity.PriceInfo{}}
	svc := NewWalletService(fetcher, resolver, nopLogger{}, aggregatorConfig())

	svc.PriceWallets(context.Background(), 1, []string{a, b})

	require.Equal(t, 1, resolver.calls, "one resolution pass for the whole request")
	assert.Equal(t, []string{"ETH"}, resolver.gotNative)
	require.Len(t, resolver.gotContracts, 1)
	assert.Contains(t, resolver.gotContracts, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
}

func TestPriceWalletsFiltersUnpricedTokens(t *testing.T) {
	addr := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	ghost := "0x1111111111111111111111111111111111111111"
	fetcher := &fakeFetcher{tokens: map[string][]entity.Token{
		addr: {
			{Symbol: "ETH", Balance: 1, IsNative: true},
			{Symbol: "GHOST", Balance: 5, ContractAddress: ghost},
			{Symbol: "TESTNETCOIN", Balance: 9, IsNative: true},
		},
	}}
	// Only ETH gets a price: the contract token is unknown to the provider
	// and the exotic native asset has no canonical quote source at all.
	resolver := &fakeResolver{prices: map[string]entity.PriceInfo{"eth": {USD: 3000}}}
	svc := NewWalletService(fetcher, resolver, nopLogger{}, aggregatorConfig())

	results := svc.PriceWallets(context.Background(), 1, []string{addr})

	require.Len(t, results, 1)
	require.Len(t, results[0].Tokens, 2)
	assert.Equal(t, "ETH", results[0].Tokens[0].Symbol)
	// The unpriceable native asset survives with a zero valuation.
	assert.Equal(t, "TESTNETCOIN", results[0].Tokens[1].Symbol)
	assert.Zero(t, results[0].Tokens[1].PriceUSD)
	for _, tok := range results[0].Tokens {
		assert.NotEqual(t, "GHOST", tok.Symbol)
	}
}

func TestPriceWalletsPriceableNativeWithoutQuoteDropped(t *testing.T) {
	addr := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	fetcher := &fakeFetcher{tokens: map[string][]entity.Token{
		addr: {{Symbol: "ETH", Balance: 1, IsNative: true}},
	}}
	// ETH is priceable but the provider returned nothing for it.
	resolver := &fakeResolver{prices: map[string]entity.PriceInfo{}}
	svc := NewWalletService(fetcher, resolver, nopLogger{}, aggregatorConfig())

	results := svc.PriceWallets(context.Background(), 1, []string{addr})

	require.Len(t, results, 1)
	assert.Empty(t, results[0].Tokens)
}
