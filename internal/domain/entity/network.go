package entity

// NetworkDefinition holds the static configuration of a supported chain.
// This structure is defined at the domain level to be used across application
// and infrastructure layers.
type NetworkDefinition struct {
	ChainID uint64 `json:"chainId" yaml:"chainId"`
	Name    string `json:"name" yaml:"name"`
	// RPCSlug is the provider-specific network identifier used to build the
	// JSON-RPC endpoint (for example "eth-mainnet").
	RPCSlug string `json:"rpcSlug" yaml:"rpcSlug"`
	// NativeSymbol is the symbol balances of the chain's base asset are
	// reported under. Testnets map to their mainnet symbol so that prices
	// resolve (Sepolia ETH is priced as ETH).
	NativeSymbol string `json:"nativeSymbol" yaml:"nativeSymbol"`
	// PlatformID is the contract-price provider's asset platform identifier;
	// empty when the provider does not index the chain.
	PlatformID string `json:"platformId,omitempty" yaml:"platformId,omitempty"`
	Decimals   uint8  `json:"decimals" yaml:"decimals"`
}
