package definition

import (
	"strings"

	"defi_assistant/internal/domain/entity"
)

// Predefined network definitions. Testnet natives deliberately reuse the
// mainnet symbol so their balances resolve to the mainnet price.
var ( //nolint:gochecknoglobals // Global for definitions
	EthereumMainnet = entity.NetworkDefinition{
		ChainID:      1,
		Name:         "Ethereum Mainnet",
		RPCSlug:      "eth-mainnet",
		NativeSymbol: "ETH",
		PlatformID:   "ethereum",
		Decimals:     18,
	}
	EthereumSepolia = entity.NetworkDefinition{
		ChainID:      11155111,
		Name:         "Ethereum Sepolia",
		RPCSlug:      "eth-sepolia",
		NativeSymbol: "ETH",
		PlatformID:   "", // contract prices are not indexed for testnets
		Decimals:     18,
	}
	PolygonMainnet = entity.NetworkDefinition{
		ChainID:      137,
		Name:         "Polygon PoS",
		RPCSlug:      "polygon-mainnet",
		NativeSymbol: "MATIC",
		PlatformID:   "polygon-pos",
		Decimals:     18,
	}
	ArbitrumOne = entity.NetworkDefinition{
		ChainID:      42161,
		Name:         "Arbitrum One",
		RPCSlug:      "arb-mainnet",
		NativeSymbol: "ETH",
		PlatformID:   "arbitrum-one",
		Decimals:     18,
	}
	BNBMainnet = entity.NetworkDefinition{
		ChainID:      56,
		Name:         "BNB Smart Chain",
		RPCSlug:      "bnb-mainnet",
		NativeSymbol: "BNB",
		PlatformID:   "binance-smart-chain",
		Decimals:     18,
	}
	BNBTestnet = entity.NetworkDefinition{
		ChainID:      97,
		Name:         "BNB Testnet",
		RPCSlug:      "bnb-testnet",
		NativeSymbol: "BNB",
		PlatformID:   "",
		Decimals:     18,
	}
)

var byChainID = map[uint64]entity.NetworkDefinition{
	EthereumMainnet.ChainID: EthereumMainnet,
	EthereumSepolia.ChainID: EthereumSepolia,
	PolygonMainnet.ChainID:  PolygonMainnet,
	ArbitrumOne.ChainID:     ArbitrumOne,
	BNBMainnet.ChainID:      BNBMainnet,
	BNBTestnet.ChainID:      BNBTestnet,
}

// nativeCoinIDs maps native symbols (lower-cased) to the symbol-price
// provider's canonical coin identifiers. Symbols outside this table are
// skipped by the native price path.
var nativeCoinIDs = map[string]string{
	"eth":   "ethereum",
	"bnb":   "binancecoin",
	"matic": "matic-network",
	"avax":  "avalanche-2",
}

// ByChainID returns the definition for a chain identifier, reporting whether
// the chain is part of the fixed catalogue.
func ByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	def, ok := byChainID[chainID]
	return def, ok
}

// All returns every supported network definition.
func All() []entity.NetworkDefinition {
	defs := make([]entity.NetworkDefinition, 0, len(byChainID))
	for _, def := range byChainID {
		defs = append(defs, def)
	}
	return defs
}

// NativeCoinID translates a native symbol to the symbol-price provider's
// coin identifier. The second return value reports whether the symbol is
// known; unknown symbols are never priced.
func NativeCoinID(symbol string) (string, bool) {
	id, ok := nativeCoinIDs[strings.ToLower(symbol)]
	return id, ok
}
