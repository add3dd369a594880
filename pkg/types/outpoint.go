package types

import "fmt"

// Outpoint references a specific output of a prior transaction.
// The index is a single byte on the wire, so a transaction can
// expose at most 256 referenceable outputs.
type Outpoint struct {
	TxHash Hash  `json:"tx_hash"`
	Index  uint8 `json:"index"`
}

// NewOutpoint parses a hex transaction hash into an Outpoint.
func NewOutpoint(txHash string, index uint8) (Outpoint, error) {
	h, err := ParseHash(txHash)
	if err != nil {
		return Outpoint{}, err
	}
	return Outpoint{TxHash: h, Index: index}, nil
}

// IsZero returns true if the outpoint has a zero hash and zero index.
func (o Outpoint) IsZero() bool {
	return o.TxHash.IsZero() && o.Index == 0
}

// String returns "txhash:index" in hex.
func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxHash.String(), o.Index)
}
