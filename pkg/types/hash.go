// Package types defines the primitive values shared by the uPow wire format:
// hashes, outpoints, amounts, curve points and the output/input type tags.
package types

import (
	"encoding/hex"
	"fmt"
)

// HashSize is the length of a SHA-256 digest.
const HashSize = 32

// Hash is a transaction hash or signing digest. Nodes report hashes as
// lowercase hex, and the wire format carries the raw 32 bytes.
type Hash [HashSize]byte

// ParseHash decodes 64 hex characters into a Hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != 2*HashSize {
		return h, fmt.Errorf("%w: hash must be %d hex characters, got %d", ErrInvalidEncoding, 2*HashSize, len(s))
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return Hash{}, fmt.Errorf("%w: hash: %v", ErrInvalidEncoding, err)
	}
	return h, nil
}

func (h Hash) IsZero() bool { return h == Hash{} }

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// MarshalText encodes the hash as hex, which also makes it a JSON string.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText accepts hex or an empty value, which yields the zero hash.
func (h *Hash) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*h = Hash{}
		return nil
	}
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
