package entity

// SimplePriceQuote is a single coin entry of the symbol-based price endpoint
// when querying with usd, market cap and 24h change included.
type SimplePriceQuote struct {
	USD          float64 `json:"usd"`
	USDMarketCap float64 `json:"usd_market_cap"`
	USD24hChange float64 `json:"usd_24h_change"`
}

// SimplePriceResponse maps provider coin identifiers to their quotes.
type SimplePriceResponse map[string]SimplePriceQuote

// ContractCoin is the contract-lookup response: market data plus the tickers
// used by the trust filter and the per-platform metadata.
type ContractCoin struct {
	ID              string                    `json:"id"`
	Symbol          string                    `json:"symbol"`
	Name            string                    `json:"name"`
	Image           CoinImage                 `json:"image"`
	DetailPlatforms map[string]DetailPlatform `json:"detail_platforms"`
	MarketData      MarketData                `json:"market_data"`
	Tickers         []Ticker                  `json:"tickers"`
}

// CoinImage holds the logo URLs reported by the contract lookup.
type CoinImage struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

// DetailPlatform carries per-chain contract metadata, notably decimals.
type DetailPlatform struct {
	DecimalPlace    int    `json:"decimal_place"`
	ContractAddress string `json:"contract_address"`
}

// MarketData holds the priced figures of a contract-resolved coin, keyed by
// fiat currency ("usd").
type MarketData struct {
	CurrentPrice             map[string]float64 `json:"current_price"`
	MarketCap                map[string]float64 `json:"market_cap"`
	PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
}

// Ticker is one market quoting the coin. TrustScore is the third-party
// reliability signal ("green", "yellow", "red" or empty).
type Ticker struct {
	Base       string       `json:"base"`
	Target     string       `json:"target"`
	Market     TickerMarket `json:"market"`
	TrustScore string       `json:"trust_score"`
}

// TickerMarket identifies the exchange a ticker was observed on.
type TickerMarket struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}
