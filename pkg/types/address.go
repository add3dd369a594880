package types

import (
	"crypto/elliptic"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// Encoded point sizes.
const (
	FullPointSize       = 64 // X || Y
	CompressedPointSize = 33 // parity || X
	coordSize           = 32
)

// Compressed point prefixes.
const (
	prefixEven byte = 0x02
	prefixOdd  byte = 0x03
)

// AddressFormat selects how a curve point is encoded as an address.
type AddressFormat uint8

const (
	// AddressCompressed is the 33-byte parity-prefixed X coordinate.
	AddressCompressed AddressFormat = iota
	// AddressFull is the 64-byte X || Y encoding.
	AddressFull
)

// String returns the config name of the format.
func (f AddressFormat) String() string {
	switch f {
	case AddressCompressed:
		return "compressed"
	case AddressFull:
		return "full"
	default:
		return "unknown"
	}
}

// Size returns the encoded length of a point in this format.
func (f AddressFormat) Size() int {
	if f == AddressFull {
		return FullPointSize
	}
	return CompressedPointSize
}

// ParseAddressFormat converts a config string to an AddressFormat.
func ParseAddressFormat(s string) (AddressFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compressed", "":
		return AddressCompressed, nil
	case "full", "hex":
		return AddressFull, nil
	default:
		return 0, fmt.Errorf("unknown address format %q", s)
	}
}

// Curve returns the ledger's elliptic curve (NIST P-256).
func Curve() elliptic.Curve {
	return elliptic.P256()
}

// Point is an affine point on the ledger curve. Public keys and
// addresses are both points.
type Point struct {
	X *big.Int
	Y *big.Int
}

// Copy returns a point that shares no memory with p.
func (p Point) Copy() Point {
	var c Point
	if p.X != nil {
		c.X = new(big.Int).Set(p.X)
	}
	if p.Y != nil {
		c.Y = new(big.Int).Set(p.Y)
	}
	return c
}

// IsOnCurve reports whether p is a valid point on P-256.
func (p Point) IsOnCurve() bool {
	if p.X == nil || p.Y == nil {
		return false
	}
	return Curve().IsOnCurve(p.X, p.Y)
}

// Equal reports whether two points have the same coordinates.
func (p Point) Equal(o Point) bool {
	if p.X == nil || p.Y == nil || o.X == nil || o.Y == nil {
		return false
	}
	return p.X.Cmp(o.X) == 0 && p.Y.Cmp(o.Y) == 0
}

// PointToBytes encodes p in the requested format.
func PointToBytes(p Point, format AddressFormat) ([]byte, error) {
	if !p.IsOnCurve() {
		return nil, fmt.Errorf("%w: point is not on curve", ErrInvalidEncoding)
	}
	switch format {
	case AddressFull:
		out := make([]byte, FullPointSize)
		p.X.FillBytes(out[:coordSize])
		p.Y.FillBytes(out[coordSize:])
		return out, nil
	case AddressCompressed:
		out := make([]byte, CompressedPointSize)
		out[0] = prefixEven
		if p.Y.Bit(0) == 1 {
			out[0] = prefixOdd
		}
		p.X.FillBytes(out[1:])
		return out, nil
	default:
		return nil, fmt.Errorf("%w: address format %d", ErrInvalidEncoding, format)
	}
}

// BytesToPoint decodes an encoded point, inferring the format from its
// length: 64 bytes is full, 33 bytes is compressed.
func BytesToPoint(b []byte) (Point, error) {
	switch len(b) {
	case FullPointSize:
		p := Point{
			X: new(big.Int).SetBytes(b[:coordSize]),
			Y: new(big.Int).SetBytes(b[coordSize:]),
		}
		if !p.IsOnCurve() {
			return Point{}, fmt.Errorf("%w: point is not on curve", ErrInvalidEncoding)
		}
		return p, nil
	case CompressedPointSize:
		if b[0] != prefixEven && b[0] != prefixOdd {
			return Point{}, fmt.Errorf("%w: compressed prefix 0x%02x", ErrInvalidEncoding, b[0])
		}
		x := new(big.Int).SetBytes(b[1:])
		y, err := XToY(x, b[0] == prefixOdd)
		if err != nil {
			return Point{}, err
		}
		return Point{X: x, Y: y}, nil
	default:
		return Point{}, fmt.Errorf("%w: point must be %d or %d bytes, got %d",
			ErrInvalidEncoding, FullPointSize, CompressedPointSize, len(b))
	}
}

// XToY recovers the Y coordinate for x by solving y² = x³ + a·x + b (mod p)
// and picking the root whose parity matches odd.
func XToY(x *big.Int, odd bool) (*big.Int, error) {
	params := Curve().Params()
	p := params.P
	if x.Sign() < 0 || x.Cmp(p) >= 0 {
		return nil, fmt.Errorf("%w: x coordinate out of range", ErrInvalidEncoding)
	}

	// P-256 has a = -3.
	x3 := new(big.Int).Exp(x, big.NewInt(3), p)
	threeX := new(big.Int).Mul(x, big.NewInt(3))
	y2 := new(big.Int).Sub(x3, threeX)
	y2.Add(y2, params.B)
	y2.Mod(y2, p)

	y := new(big.Int).ModSqrt(y2, p)
	if y == nil {
		return nil, fmt.Errorf("%w: x is not on curve", ErrInvalidEncoding)
	}
	if (y.Bit(0) == 1) != odd {
		y.Sub(p, y)
	}
	return y, nil
}

// PointToString encodes p as a hex address string.
func PointToString(p Point, format AddressFormat) (string, error) {
	b, err := PointToBytes(p, format)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// StringToPoint decodes a hex address string to a point.
func StringToPoint(s string) (Point, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return Point{}, fmt.Errorf("%w: address is not hex: %v", ErrInvalidEncoding, err)
	}
	return BytesToPoint(b)
}

// AddressBytes decodes a hex address string to its raw encoding,
// checking that it is a valid point.
func AddressBytes(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: address is not hex: %v", ErrInvalidEncoding, err)
	}
	if _, err := BytesToPoint(b); err != nil {
		return nil, err
	}
	return b, nil
}
