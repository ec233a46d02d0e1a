package ether

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimals is the number of wei digits in one ether.
const Decimals = 18

var (
	ErrEmpty           = errors.New("amount is empty")
	ErrMalformed       = errors.New("amount is not a decimal number")
	ErrTooManyDecimals = errors.New("amount has more than 18 decimal places")
)

// ParseEther converts ether text such as "0.15" into wei.
func ParseEther(text string) (*big.Int, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, ErrEmpty
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, raw)
	}
	wei := amount.Shift(Decimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("%w: %q", ErrTooManyDecimals, raw)
	}
	return wei.BigInt(), nil
}

// FormatEther renders wei as the shortest ether decimal string.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -Decimals).String()
}
