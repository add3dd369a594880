package crypto

import (
	stdcrypto "crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/upow-network/upow-wallet/pkg/types"
)

// SignatureSize is the wire size of an r || s signature.
const SignatureSize = 64

// PrivateKeySize is the size of a serialized private scalar.
const PrivateKeySize = 32

// ErrInvalidKey is returned for malformed or out-of-range private keys.
var ErrInvalidKey = errors.New("invalid private key")

// Signer signs transaction digests.
type Signer interface {
	// Sign produces a deterministic ECDSA signature over a 32-byte digest.
	Sign(digest []byte) (Signature, error)
	// PublicKey returns the signer's public point.
	PublicKey() types.Point
}

var _ Signer = (*PrivateKey)(nil)

// Signature is an ECDSA signature. On the wire both halves are 32-byte
// big-endian integers.
type Signature struct {
	R *big.Int
	S *big.Int
}

// IsZero reports whether the signature is unset.
func (s Signature) IsZero() bool {
	return s.R == nil || s.S == nil
}

// Copy returns a signature that shares no memory with s.
func (s Signature) Copy() Signature {
	if s.IsZero() {
		return Signature{}
	}
	return Signature{R: new(big.Int).Set(s.R), S: new(big.Int).Set(s.S)}
}

// Bytes returns the 64-byte r || s encoding.
func (s Signature) Bytes() []byte {
	out := make([]byte, SignatureSize)
	if s.IsZero() {
		return out
	}
	s.R.FillBytes(out[:32])
	s.S.FillBytes(out[32:])
	return out
}

// String returns the hex encoding of Bytes.
func (s Signature) String() string {
	return hex.EncodeToString(s.Bytes())
}

// Equal reports whether two signatures have the same r and s.
func (s Signature) Equal(o Signature) bool {
	if s.IsZero() || o.IsZero() {
		return s.IsZero() && o.IsZero()
	}
	return s.R.Cmp(o.R) == 0 && s.S.Cmp(o.S) == 0
}

// SignatureFromBytes parses a 64-byte r || s signature.
func SignatureFromBytes(b []byte) (Signature, error) {
	if len(b) != SignatureSize {
		return Signature{}, fmt.Errorf("%w: signature must be %d bytes, got %d",
			types.ErrInvalidEncoding, SignatureSize, len(b))
	}
	return Signature{
		R: new(big.Int).SetBytes(b[:32]),
		S: new(big.Int).SetBytes(b[32:]),
	}, nil
}

// PrivateKey wraps a P-256 private key for deterministic ECDSA signing.
type PrivateKey struct {
	key *ecdsa.PrivateKey
}

// GenerateKey creates a new random P-256 private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte big-endian scalar.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidKey, PrivateKeySize, len(b))
	}
	return PrivateKeyFromInt(new(big.Int).SetBytes(b))
}

// PrivateKeyFromInt creates a PrivateKey from its scalar.
func PrivateKeyFromInt(d *big.Int) (*PrivateKey, error) {
	curve := elliptic.P256()
	n := curve.Params().N
	if d.Sign() <= 0 || d.Cmp(n) >= 0 {
		return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidKey)
	}
	scalar := make([]byte, PrivateKeySize)
	d.FillBytes(scalar)
	x, y := curve.ScalarBaseMult(scalar)
	return &PrivateKey{key: &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
		D:         new(big.Int).Set(d),
	}}, nil
}

// Sign produces an RFC 6979 deterministic signature over a 32-byte digest.
// The same key and digest always give the same signature.
func (pk *PrivateKey) Sign(digest []byte) (Signature, error) {
	if len(digest) != sha256.Size {
		return Signature{}, fmt.Errorf("digest must be %d bytes, got %d", sha256.Size, len(digest))
	}
	// A nil random source selects deterministic nonces.
	der, err := pk.key.Sign(nil, digest, stdcrypto.SHA256)
	if err != nil {
		return Signature{}, fmt.Errorf("sign: %w", err)
	}
	return parseDER(der)
}

// parseDER splits an ASN.1 ECDSA-Sig-Value into r and s.
func parseDER(der []byte) (Signature, error) {
	var (
		r, s  = new(big.Int), new(big.Int)
		inner cryptobyte.String
	)
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) || !input.Empty() ||
		!inner.ReadASN1Integer(r) || !inner.ReadASN1Integer(s) || !inner.Empty() {
		return Signature{}, fmt.Errorf("%w: malformed DER signature", types.ErrInvalidEncoding)
	}
	return Signature{R: r, S: s}, nil
}

// PublicKey returns the public point.
func (pk *PrivateKey) PublicKey() types.Point {
	return types.Point{
		X: new(big.Int).Set(pk.key.X),
		Y: new(big.Int).Set(pk.key.Y),
	}
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	out := make([]byte, PrivateKeySize)
	pk.key.D.FillBytes(out)
	return out
}

// Int returns a copy of the private scalar.
func (pk *PrivateKey) Int() *big.Int {
	return new(big.Int).Set(pk.key.D)
}

// Address encodes the public point in the given format.
func (pk *PrivateKey) Address(format types.AddressFormat) (string, error) {
	return types.PointToString(pk.PublicKey(), format)
}

// Zero clears the private scalar.
func (pk *PrivateKey) Zero() {
	pk.key.D.SetInt64(0)
}

// VerifySignature checks sig against digest and the public point.
// Returns false on any error.
func VerifySignature(pub types.Point, digest []byte, sig Signature) bool {
	if sig.IsZero() || !pub.IsOnCurve() {
		return false
	}
	key := &ecdsa.PublicKey{Curve: elliptic.P256(), X: pub.X, Y: pub.Y}
	return ecdsa.Verify(key, digest, sig.R, sig.S)
}
