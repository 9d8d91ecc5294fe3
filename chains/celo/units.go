package celo

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// NativeDecimals is the number of decimals of the native asset
const NativeDecimals = 18

// ParseUnits converts a human readable amount such as "1.5" into base units
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount must not be negative: %s", amount)
	}

	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}
	return scaled.BigInt(), nil
}

// FormatUnits converts base units into a decimal string
func FormatUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -int32(decimals)).String()
}

// FormatEther formats a wei amount of the native asset
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, NativeDecimals)
}

// ParseAddress validates and parses a hex address
func ParseAddress(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("invalid address: %s", address)
	}
	return common.HexToAddress(address), nil
}
