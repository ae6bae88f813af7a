package entity

import "strings"

// Token holds one priced balance entry of a wallet.
// Native coins carry no contract address and are identified by symbol;
// fungible tokens are identified by their lower-cased contract address.
type Token struct {
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	ContractAddress string  `json:"contractAddress,omitempty"`
	Balance         float64 `json:"balance"`
	Logo            string  `json:"logo,omitempty"`
	IsNative        bool    `json:"isNative"`
	Decimals        uint8   `json:"-"`
	PriceUSD        float64 `json:"price_usd"`
	PriceChange24h  float64 `json:"price_change_24h"`
	MarketCapUSD    float64 `json:"market_cap"`
	TotalValueUSD   float64 `json:"total_value_usd"`
}

// PriceKey returns the cache key identifying this token for price resolution.
func (t Token) PriceKey() string {
	if t.IsNative {
		return SymbolKey(t.Symbol)
	}
	return ContractKey(t.ContractAddress)
}

// WalletResult is the priced token inventory of a single requested address.
// One WalletResult is produced per requested address even when every fetch
// for it failed; Tokens is empty in that case.
type WalletResult struct {
	Address string  `json:"address"`
	Tokens  []Token `json:"tokens"`
}

// SymbolKey returns the cache key for a native-coin price.
func SymbolKey(symbol string) string {
	return strings.ToLower(symbol)
}

// ContractKey returns the cache key for a contract-resolved price. The
// "contract_" prefix keeps the symbol and contract namespaces disjoint.
func ContractKey(address string) string {
	return "contract_" + strings.ToLower(address)
}
