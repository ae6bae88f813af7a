package utils

import "math/big"

// RawBalanceToFloat converts a raw on-chain integer amount into its
// decimal-adjusted human value (amount / 10^decimals).
// Example: amount=1234500000000000000, decimals=18 => 1.2345
func RawBalanceToFloat(amount *big.Int, decimals uint8) float64 {
	if amount == nil || amount.Sign() == 0 {
		return 0
	}

	amountFloat := new(big.Float).SetInt(amount)
	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))

	value, _ := new(big.Float).Quo(amountFloat, divisor).Float64()
	return value
}

// ParseHexBig parses a 0x-prefixed hex quantity into a big.Int. Empty or
// malformed input yields zero, the way RPC providers encode "no balance".
func ParseHexBig(hexStr string) *big.Int {
	if len(hexStr) < 3 || hexStr[0] != '0' || (hexStr[1] != 'x' && hexStr[1] != 'X') {
		return big.NewInt(0)
	}
	value, ok := new(big.Int).SetString(hexStr[2:], 16)
	if !ok {
		return big.NewInt(0)
	}
	return value
}
