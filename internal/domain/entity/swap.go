package entity

// SwapQuoteRequest carries the parameters forwarded to the exchange router.
type SwapQuoteRequest struct {
	ChainID     string  `json:"chainID"`
	InputToken  string  `json:"inputToken" binding:"required"`
	OutputToken string  `json:"outputToken" binding:"required"`
	InputAmount string  `json:"inputAmount" binding:"required"`
	UserAddress string  `json:"userAddress" binding:"required"`
	Slippage    float64 `json:"slippage"`
}

// SwapTransaction is the router quote reshaped into a signable transaction
// skeleton plus the USD estimates the frontend displays.
type SwapTransaction struct {
	InputAmount              string  `json:"inputAmount"`
	OutputAmount             string  `json:"outputAmount"`
	EffectiveInputAmount     string  `json:"effectiveInputAmount"`
	EffectiveOutputAmount    string  `json:"effectiveOutputAmount"`
	MinOutputAmount          string  `json:"minOutputAmount"`
	InputAmountUSD           float64 `json:"inputAmountUSD"`
	OutputAmountUSD          float64 `json:"outputAmountUSD"`
	EffectiveInputAmountUSD  float64 `json:"effectiveInputAmountUSD"`
	EffectiveOutputAmountUSD float64 `json:"effectiveOutputAmountUSD"`
	EstimatedNetSurplus      float64 `json:"estimatedNetSurplus"`
	To                       string  `json:"to"`
	Data                     string  `json:"data"`
	Value                    string  `json:"value"`
	GasLimit                 int64   `json:"gasLimit"`
	GasPrice                 string  `json:"gasPrice,omitempty"`
}

// SwapQuoteResponse wraps either a quote or the upstream router error,
// preserving the upstream status code.
type SwapQuoteResponse struct {
	Status int `json:"status"`
	Result any `json:"result"`
}
