// Package crypto provides the uPow hashing and ECDSA P-256 signing primitives.
package crypto

import (
	"crypto/sha256"

	"github.com/upow-network/upow-wallet/pkg/types"
)

// Hash computes the SHA-256 digest of data.
func Hash(data []byte) types.Hash {
	return sha256.Sum256(data)
}

// SigningDigest returns the digest that gets signed for a transaction:
// SHA-256 over the ASCII hex text of its partial encoding, not over the
// raw bytes.
func SigningDigest(partialHex string) types.Hash {
	return Hash([]byte(partialHex))
}
