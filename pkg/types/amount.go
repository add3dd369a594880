package types

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Amount and encoding errors.
var (
	ErrInvalidEncoding = errors.New("invalid encoding")
	ErrPrecision       = errors.New("too many decimal digits")
	ErrInvalidAmount   = errors.New("invalid amount")
)

const (
	// Decimals is the number of fractional digits of the smallest unit.
	Decimals = 8
	// Smallest is the number of smallest units in one coin.
	Smallest = 100_000_000
	// MaxSupply is the total coin supply, in whole coins.
	MaxSupply = 18_884_643
)

// SmallestUnit is 10^-8, the finest amount representable on the wire.
var SmallestUnit = decimal.New(1, -Decimals)

// ToSmallest converts a coin amount to an integer count of smallest units.
// It fails with ErrPrecision when the amount is not an exact multiple of
// the smallest unit and with ErrInvalidAmount when it is negative.
func ToSmallest(amount decimal.Decimal) (uint64, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", ErrInvalidAmount, amount)
	}
	scaled := amount.Shift(Decimals)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrPrecision, amount)
	}
	units := scaled.BigInt()
	if !units.IsUint64() {
		return 0, fmt.Errorf("%w: amount %s overflows", ErrInvalidAmount, amount)
	}
	return units.Uint64(), nil
}

// FromSmallest converts an integer count of smallest units to coins.
func FromSmallest(units uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -Decimals)
}

// CheckPrecision returns ErrPrecision if amount has more than 8 fractional digits.
func CheckPrecision(amount decimal.Decimal) error {
	if !amount.Shift(Decimals).IsInteger() {
		return fmt.Errorf("%w: %s", ErrPrecision, amount)
	}
	return nil
}

var maxAmount = decimal.NewFromInt(MaxSupply)

// ParseAmount parses a decimal string and checks its precision. Amounts
// above the total supply are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.GreaterThan(maxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %s exceeds the supply of %d", ErrInvalidAmount, d, MaxSupply)
	}
	if err := CheckPrecision(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// Quantize leaves an amount that is already a multiple of the smallest
// unit unchanged and otherwise rounds it to 8 fractional digits using
// round-half-even.
func Quantize(d decimal.Decimal) decimal.Decimal {
	if d.Shift(Decimals).IsInteger() {
		return d
	}
	return d.RoundBank(Decimals)
}

// SumAmounts adds up a list of amounts.
func SumAmounts(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
