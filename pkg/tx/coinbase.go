package tx

import (
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/types"
)

// coinbaseTrailer terminates every coinbase encoding.
const coinbaseTrailer byte = 0x24

// Coinbase pays a block reward. Its single pseudo-input references the
// block hash instead of a prior output.
type Coinbase struct {
	blockHash types.Hash
	output    Output
	version   uint8

	once sync.Once
	enc  []byte
	hash types.Hash
}

// NewCoinbase creates a coinbase paying amount to address.
// The version is 1 for a full address and 2 for a compressed one.
func NewCoinbase(blockHash types.Hash, address string, amount decimal.Decimal) (*Coinbase, error) {
	out, err := NewOutput(address, amount, types.OutputRegular)
	if err != nil {
		return nil, fmt.Errorf("coinbase: %w", err)
	}
	var version uint8
	switch out.Width() {
	case types.FullPointSize:
		version = 1
	case types.CompressedPointSize:
		version = 2
	default:
		return nil, fmt.Errorf("coinbase: %w: %d-byte address", types.ErrInvalidEncoding, out.Width())
	}
	return &Coinbase{blockHash: blockHash, output: out, version: version}, nil
}

// BlockHash returns the referenced block hash.
func (c *Coinbase) BlockHash() types.Hash { return c.blockHash }

// Output returns the reward output.
func (c *Coinbase) Output() Output { return c.output }

// Version returns the coinbase wire version.
func (c *Coinbase) Version() uint8 { return c.version }

// Bytes returns the encoding:
// version | 01 | block_hash | 00 | REGULAR | 01 | output | 0x24.
func (c *Coinbase) Bytes() []byte {
	c.once.Do(func() {
		buf := []byte{c.version, 1}
		buf = append(buf, c.blockHash[:]...)
		buf = append(buf, 0, byte(types.InputRegular), 1)
		buf = append(buf, c.output.Bytes()...)
		c.enc = append(buf, coinbaseTrailer)
		c.hash = crypto.Hash(c.enc)
	})
	return append([]byte(nil), c.enc...)
}

// Hex returns the encoding as hex.
func (c *Coinbase) Hex() string {
	return hex.EncodeToString(c.Bytes())
}

// Hash returns SHA-256 over the encoding.
func (c *Coinbase) Hash() types.Hash {
	c.Bytes()
	return c.hash
}
