package tx

import (
	"encoding/hex"
	"fmt"
	"math/bits"

	"github.com/shopspring/decimal"

	"github.com/upow-network/upow-wallet/pkg/types"
)

// Output declares a new spendable output. It is immutable once constructed.
type Output struct {
	address []byte
	point   types.Point
	amount  decimal.Decimal
	units   uint64
	typ     types.OutputType
}

// NewOutput creates an output paying amount to a hex-encoded address.
// The address keeps the width it was given in (64-byte full or 33-byte
// compressed). The amount must be non-negative with at most 8 decimals.
func NewOutput(address string, amount decimal.Decimal, typ types.OutputType) (Output, error) {
	raw, err := types.AddressBytes(address)
	if err != nil {
		return Output{}, fmt.Errorf("output address: %w", err)
	}
	units, err := types.ToSmallest(amount)
	if err != nil {
		return Output{}, fmt.Errorf("output amount: %w", err)
	}
	return newOutput(raw, units, typ)
}

// NewOutputFromPoint creates an output paying amount to p, encoded in format.
func NewOutputFromPoint(p types.Point, format types.AddressFormat, amount decimal.Decimal, typ types.OutputType) (Output, error) {
	raw, err := types.PointToBytes(p, format)
	if err != nil {
		return Output{}, fmt.Errorf("output address: %w", err)
	}
	units, err := types.ToSmallest(amount)
	if err != nil {
		return Output{}, fmt.Errorf("output amount: %w", err)
	}
	return newOutput(raw, units, typ)
}

func newOutput(raw []byte, units uint64, typ types.OutputType) (Output, error) {
	if !typ.Valid() {
		return Output{}, fmt.Errorf("%w: output type %d", types.ErrInvalidEncoding, uint8(typ))
	}
	p, err := types.BytesToPoint(raw)
	if err != nil {
		return Output{}, fmt.Errorf("output address: %w", err)
	}
	return Output{
		address: append([]byte(nil), raw...),
		point:   p,
		amount:  types.FromSmallest(units),
		units:   units,
		typ:     typ,
	}, nil
}

// Address returns the hex-encoded destination address.
func (o Output) Address() string { return hex.EncodeToString(o.address) }

// AddressBytes returns a copy of the encoded destination address.
func (o Output) AddressBytes() []byte { return append([]byte(nil), o.address...) }

// Width is the encoded address length, 64 or 33.
func (o Output) Width() int { return len(o.address) }

// PublicKey returns the destination point.
func (o Output) PublicKey() types.Point { return o.point }

// Amount returns the output value in coins.
func (o Output) Amount() decimal.Decimal { return o.amount }

// Units returns the output value in smallest units.
func (o Output) Units() uint64 { return o.units }

// Type returns the output type tag.
func (o Output) Type() types.OutputType { return o.typ }

// Verify checks that the output is spendable: a positive amount paid to a
// point on the curve.
func (o Output) Verify() error {
	if o.units == 0 {
		return ErrZeroOutput
	}
	if !o.point.IsOnCurve() {
		return fmt.Errorf("%w: output address is not on curve", types.ErrInvalidEncoding)
	}
	return nil
}

// Bytes returns the wire encoding:
// address | amount_len(1) | amount (big-endian, minimal) | type(1).
func (o Output) Bytes() []byte {
	n := amountLen(o.units)
	buf := make([]byte, 0, len(o.address)+n+2)
	buf = append(buf, o.address...)
	buf = append(buf, byte(n))
	for i := n - 1; i >= 0; i-- {
		buf = append(buf, byte(o.units>>(8*uint(i))))
	}
	return append(buf, byte(o.typ))
}

// amountLen is the minimal number of bytes holding v. Zero takes none.
func amountLen(v uint64) int {
	return (bits.Len64(v) + 7) / 8
}
