package entity

import (
	"errors"
	"fmt"
)

// ErrPriceNotFound is returned by the contract price client when the provider
// does not know the requested contract address (HTTP 404).
var ErrPriceNotFound = errors.New("price not found for contract")

// UnsupportedChainError reports a chain identifier outside the fixed network
// catalogue. It fails the single address it was raised for, never the whole
// aggregation request.
type UnsupportedChainError struct {
	ChainID uint64
}

func (e UnsupportedChainError) Error() string {
	return fmt.Sprintf("unsupported chain id: %d", e.ChainID)
}
