package client

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"defi_assistant/internal/app/port"
	"defi_assistant/internal/domain/entity"
	"defi_assistant/internal/infrastructure/network/definition"
	"defi_assistant/internal/pkg/utils"
	"defi_assistant/pkg/metrics"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

const dialTimeout = 10 * time.Second

// tokenBalancesResult is the provider's token balance listing for an address.
type tokenBalancesResult struct {
	Address       string             `json:"address"`
	TokenBalances []tokenBalanceItem `json:"tokenBalances"`
}

type tokenBalanceItem struct {
	ContractAddress string `json:"contractAddress"`
	TokenBalance    string `json:"tokenBalance"`
}

// tokenMetadataResult is the provider's token metadata lookup. Decimals is a
// pointer because the provider reports null for contracts it cannot decode.
type tokenMetadataResult struct {
	Decimals *int   `json:"decimals"`
	Logo     string `json:"logo"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
}

// AlchemyFetcher implements port.BalanceFetcher against an Alchemy-style
// JSON-RPC endpoint. RPC clients are dialed lazily per chain and reused.
type AlchemyFetcher struct {
	endpointTemplate string
	apiKey           string
	callTimeout      time.Duration
	logger           *zap.Logger

	mu      sync.Mutex
	clients map[uint64]*rpc.Client
}

// NewAlchemyFetcher creates a new AlchemyFetcher. endpointTemplate receives
// the network slug and the API key, in that order.
func NewAlchemyFetcher(endpointTemplate, apiKey string, callTimeout time.Duration, logger *zap.Logger) *AlchemyFetcher {
	return &AlchemyFetcher{
		endpointTemplate: endpointTemplate,
		apiKey:           apiKey,
		callTimeout:      callTimeout,
		logger:           logger.Named("AlchemyFetcher"),
		clients:          make(map[uint64]*rpc.Client),
	}
}

var _ port.BalanceFetcher = (*AlchemyFetcher)(nil)

func (f *AlchemyFetcher) clientFor(ctx context.Context, def entity.NetworkDefinition) (*rpc.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[def.ChainID]; ok {
		return c, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	endpoint := fmt.Sprintf(f.endpointTemplate, def.RPCSlug, f.apiKey)
	c, err := rpc.DialContext(dialCtx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RPC endpoint for %s: %w", def.Name, err)
	}
	f.clients[def.ChainID] = c
	return c, nil
}

// FetchAddressTokens implements port.BalanceFetcher. An unsupported chainID
// is a hard failure; network failures inside either step are contained and
// only shrink the result.
func (f *AlchemyFetcher) FetchAddressTokens(ctx context.Context, chainID uint64, address string) ([]entity.Token, error) {
	def, ok := definition.ByChainID(chainID)
	if !ok {
		return nil, entity.UnsupportedChainError{ChainID: chainID}
	}

	client, err := f.clientFor(ctx, def)
	if err != nil {
		// Степень отказа та же, что и у сетевой ошибки: адрес остаётся без токенов.
		f.logger.Error("Failed to get RPC client for network",
			zap.String("network", def.Name), zap.String("address", address), zap.Error(err))
		return []entity.Token{}, nil
	}

	tokens := make([]entity.Token, 0, 8)

	if native, ok := f.fetchNative(ctx, client, def, address); ok {
		tokens = append(tokens, native)
	}

	tokens = append(tokens, f.fetchFungibles(ctx, client, def, address)...)
	return tokens, nil
}

// fetchNative returns the native-coin token when the address holds a
// non-zero balance. The native coin's decimals come from the network
// catalogue.
func (f *AlchemyFetcher) fetchNative(ctx context.Context, client *rpc.Client, def entity.NetworkDefinition, address string) (entity.Token, bool) {
	callCtx, cancel := context.WithTimeout(ctx, f.callTimeout)
	defer cancel()

	var raw hexutil.Big
	if err := client.CallContext(callCtx, &raw, "eth_getBalance", common.HexToAddress(address), "latest"); err != nil {
		metrics.BalanceRPCCalls.WithLabelValues("eth_getBalance", "error").Inc()
		f.logger.Warn("Failed to fetch native balance",
			zap.String("network", def.Name), zap.String("address", address), zap.Error(err))
		return entity.Token{}, false
	}
	metrics.BalanceRPCCalls.WithLabelValues("eth_getBalance", "ok").Inc()

	balance := utils.RawBalanceToFloat((*big.Int)(&raw), def.Decimals)
	if balance == 0 {
		return entity.Token{}, false
	}

	return entity.Token{
		Symbol:   def.NativeSymbol,
		Name:     def.NativeSymbol,
		Balance:  balance,
		IsNative: true,
		Decimals: def.Decimals,
	}, true
}

// fetchFungibles lists the fungible-token balances of the address and
// resolves metadata for each in one batch call. Entries without metadata or
// with a zero decimal-adjusted balance are dropped.
func (f *AlchemyFetcher) fetchFungibles(ctx context.Context, client *rpc.Client, def entity.NetworkDefinition, address string) []entity.Token {
	listCtx, cancel := context.WithTimeout(ctx, f.callTimeout)
	defer cancel()

	var listing tokenBalancesResult
	if err := client.CallContext(listCtx, &listing, "alchemy_getTokenBalances", common.HexToAddress(address)); err != nil {
		metrics.BalanceRPCCalls.WithLabelValues("alchemy_getTokenBalances", "error").Inc()
		f.logger.Warn("Failed to fetch token balances",
			zap.String("network", def.Name), zap.String("address", address), zap.Error(err))
		return nil
	}
	metrics.BalanceRPCCalls.WithLabelValues("alchemy_getTokenBalances", "ok").Inc()

	held := make([]tokenBalanceItem, 0, len(listing.TokenBalances))
	for _, item := range listing.TokenBalances {
		if utils.ParseHexBig(item.TokenBalance).Sign() != 0 {
			held = append(held, item)
		}
	}
	if len(held) == 0 {
		return nil
	}

	batch := make([]rpc.BatchElem, len(held))
	for i, item := range held {
		batch[i] = rpc.BatchElem{
			Method: "alchemy_getTokenMetadata",
			Args:   []interface{}{item.ContractAddress},
			Result: new(tokenMetadataResult),
		}
	}

	batchCtx, cancelBatch := context.WithTimeout(ctx, f.callTimeout)
	defer cancelBatch()

	if err := client.BatchCallContext(batchCtx, batch); err != nil {
		metrics.BalanceRPCCalls.WithLabelValues("alchemy_getTokenMetadata", "error").Inc()
		f.logger.Warn("Token metadata batch call failed",
			zap.String("network", def.Name), zap.String("address", address), zap.Error(err))
		return nil
	}

	tokens := make([]entity.Token, 0, len(held))
	for i, elem := range batch {
		if elem.Error != nil {
			metrics.BalanceRPCCalls.WithLabelValues("alchemy_getTokenMetadata", "error").Inc()
			f.logger.Warn("Token metadata lookup failed",
				zap.String("network", def.Name),
				zap.String("contract", held[i].ContractAddress),
				zap.Error(elem.Error))
			continue
		}
		metrics.BalanceRPCCalls.WithLabelValues("alchemy_getTokenMetadata", "ok").Inc()

		md, ok := elem.Result.(*tokenMetadataResult)
		if !ok || md == nil {
			continue
		}

		decimals := 18
		if md.Decimals != nil {
			decimals = *md.Decimals
		}
		balance := utils.RawBalanceToFloat(utils.ParseHexBig(held[i].TokenBalance), uint8(decimals))
		if balance == 0 {
			continue
		}

		symbol := md.Symbol
		if symbol == "" {
			symbol = "UNKNOWN"
		}
		name := md.Name
		if name == "" {
			name = symbol
		}

		tokens = append(tokens, entity.Token{
			Symbol:          symbol,
			Name:            name,
			ContractAddress: held[i].ContractAddress,
			Balance:         balance,
			Logo:            md.Logo,
			IsNative:        false,
			Decimals:        uint8(decimals),
		})
	}
	return tokens
}
