package entity

// MultiSendWallet is one destination of a multisend intent.
type MultiSendWallet struct {
	DestinationWalletAddress string `json:"destination_wallet_address"`
	DestinationWalletAmount  string `json:"destination_wallet_amount"`
}

// TransactionData is the transaction-intent record filled in incrementally
// across a conversation. Empty strings mean "not extracted yet".
type TransactionData struct {
	TransactionType          string            `json:"transaction_type,omitempty"`
	Chain                    string            `json:"chain,omitempty"`
	TokenType                string            `json:"token_type,omitempty"`
	Amount                   string            `json:"amount,omitempty"`
	DestinationWalletAddress string            `json:"destination_wallet_address,omitempty"`
	MultiSendWallets         []MultiSendWallet `json:"multi_send_wallets,omitempty"`
	SourceWalletAddress      string            `json:"source_wallet_address,omitempty"`
	SourceToken              string            `json:"source_token,omitempty"`
	ReceiveToken             string            `json:"receive_token,omitempty"`
	SlippageTolerance        string            `json:"slippage_tolerance,omitempty"`
}

// ChatRequest is one conversational turn together with the state carried over
// from previous turns.
type ChatRequest struct {
	Message         string           `json:"message" binding:"required,max=2048"`
	TransactionData *TransactionData `json:"transaction_data"`
	WalletData      map[string]any   `json:"wallet_data"`
}

// ChatResponse returns the assistant reply and the updated intent record.
// Status is "success" or "error"; extraction failures still return a usable
// response with the unchanged record.
type ChatResponse struct {
	Response        string          `json:"response"`
	TransactionData TransactionData `json:"transaction_data"`
	Status          string          `json:"status"`
}
