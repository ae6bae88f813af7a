package entity

import "encoding/json"

// RouterQuoteResponse is the exchange-router quote envelope. The router
// reports its own statusCode inside a 200 body, so both layers are checked.
type RouterQuoteResponse struct {
	StatusCode int                `json:"statusCode"`
	Error      any                `json:"error,omitempty"`
	Result     *RouterQuoteResult `json:"result,omitempty"`
}

// RouterQuoteResult is the raw quote as returned by the router. Numeric
// fields the router serializes inconsistently are kept as json.Number.
type RouterQuoteResult struct {
	InputAmount              string      `json:"inputAmount"`
	OutputAmount             string      `json:"outputAmount"`
	EffectiveInputAmount     string      `json:"effectiveInputAmount"`
	EffectiveOutputAmount    string      `json:"effectiveOutputAmount"`
	MinOutputAmount          string      `json:"minOutputAmount"`
	InputAmountUSD           float64     `json:"inputAmountUSD"`
	OutputAmountUSD          float64     `json:"outputAmountUSD"`
	EffectiveInputAmountUSD  float64     `json:"effectiveInputAmountUSD"`
	EffectiveOutputAmountUSD float64     `json:"effectiveOutputAmountUSD"`
	EstimatedNetSurplus      float64     `json:"estimatedNetSurplus"`
	Router                   string      `json:"router"`
	Calldata                 string      `json:"calldata"`
	Value                    json.Number `json:"value"`
	ComputationUnits         int64       `json:"computationUnits"`
	GasPrice                 json.Number `json:"gasPrice"`
}
