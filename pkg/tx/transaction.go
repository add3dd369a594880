// Package tx implements the uPow transaction model: outputs, inputs, the
// canonical wire encoding, signing and verification.
package tx

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/types"
)

// Wire limits.
const (
	MaxInputs  = 255
	MaxOutputs = 255
	// MaxVersion is the highest transaction version understood.
	MaxVersion = 3
)

// Message specifier values.
const (
	noMessage  byte = 0x00
	hasMessage byte = 0x01
)

// Transaction is a sealed transaction. Its contents cannot change after
// construction, so the encoding and hash are computed once and cached.
// Use a Builder to assemble and sign a new transaction.
type Transaction struct {
	version uint8
	inputs  []Input
	outputs []Output
	message []byte

	once    sync.Once
	fullEnc []byte
	hash    types.Hash
}

func newTransaction(inputs []Input, outputs []Output, message []byte, version uint8) (*Transaction, error) {
	if len(inputs) > MaxInputs {
		return nil, fmt.Errorf("%w: %d inputs, max %d", ErrTooManyInputs, len(inputs), MaxInputs)
	}
	if len(outputs) > MaxOutputs {
		return nil, fmt.Errorf("%w: %d outputs, max %d", ErrTooManyOutputs, len(outputs), MaxOutputs)
	}
	if version == 0 {
		v, err := deriveVersion(outputs)
		if err != nil {
			return nil, err
		}
		version = v
	}
	if version > MaxVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	width := addressWidth(version)
	for i, out := range outputs {
		if out.Width() != width {
			return nil, fmt.Errorf("output %d: %w: %d-byte address in version %d",
				i, ErrMixedAddressWidth, out.Width(), version)
		}
	}
	if message != nil {
		if limit := maxMessageLen(version); len(message) > limit {
			return nil, fmt.Errorf("%w: %d bytes, max %d", ErrMessageTooLong, len(message), limit)
		}
	}

	tx := &Transaction{
		version: version,
		inputs:  cloneInputs(inputs),
		outputs: append([]Output(nil), outputs...),
	}
	if message != nil {
		tx.message = append([]byte{}, message...)
	}
	return tx, nil
}

// deriveVersion picks 1 when every output uses a full address and 3 when
// every output uses a compressed one.
func deriveVersion(outputs []Output) (uint8, error) {
	full, compressed := true, true
	for _, out := range outputs {
		full = full && out.Width() == types.FullPointSize
		compressed = compressed && out.Width() == types.CompressedPointSize
	}
	switch {
	case full:
		return 1, nil
	case compressed:
		return 3, nil
	default:
		return 0, ErrMixedAddressWidth
	}
}

func addressWidth(version uint8) int {
	if version == 1 {
		return types.FullPointSize
	}
	return types.CompressedPointSize
}

func maxMessageLen(version uint8) int {
	if version <= 2 {
		return 0xff
	}
	return 0xffff
}

// Version returns the wire version.
func (tx *Transaction) Version() uint8 { return tx.version }

// Inputs returns a copy of the inputs.
func (tx *Transaction) Inputs() []Input { return cloneInputs(tx.inputs) }

// Outputs returns a copy of the outputs.
func (tx *Transaction) Outputs() []Output { return append([]Output(nil), tx.outputs...) }

// Input returns a copy of the i-th input.
func (tx *Transaction) Input(i int) Input { return tx.inputs[i].clone() }

// Output returns the i-th output.
func (tx *Transaction) Output(i int) Output { return tx.outputs[i] }

// NumInputs returns the number of inputs.
func (tx *Transaction) NumInputs() int { return len(tx.inputs) }

// NumOutputs returns the number of outputs.
func (tx *Transaction) NumOutputs() int { return len(tx.outputs) }

// Message returns a copy of the message, or nil if there is none.
func (tx *Transaction) Message() []byte {
	if tx.message == nil {
		return nil
	}
	return append([]byte{}, tx.message...)
}

// Type classifies the transaction from its message.
func (tx *Transaction) Type() types.TransactionType {
	return types.TransactionTypeFromMessage(tx.message)
}

// HasOutputType reports whether any output carries typ.
func (tx *Transaction) HasOutputType(typ types.OutputType) bool {
	for _, out := range tx.outputs {
		if out.typ == typ {
			return true
		}
	}
	return false
}

// Signed reports whether every input carries a signature.
func (tx *Transaction) Signed() bool {
	for _, in := range tx.inputs {
		if !in.Signed() {
			return false
		}
	}
	return true
}

func (tx *Transaction) seal() {
	tx.once.Do(func() {
		tx.fullEnc = tx.encode(true)
		tx.hash = crypto.Hash(tx.fullEnc)
	})
}

// Bytes returns the full wire encoding, signatures included.
func (tx *Transaction) Bytes() []byte {
	tx.seal()
	return append([]byte(nil), tx.fullEnc...)
}

// Hex returns the full wire encoding as hex.
func (tx *Transaction) Hex() string {
	tx.seal()
	return hex.EncodeToString(tx.fullEnc)
}

// PartialBytes returns the unsigned encoding that signatures cover.
func (tx *Transaction) PartialBytes() []byte {
	return tx.encode(false)
}

// PartialHex returns PartialBytes as hex.
func (tx *Transaction) PartialHex() string {
	return hex.EncodeToString(tx.encode(false))
}

// SigningDigest returns the digest each input signature covers.
func (tx *Transaction) SigningDigest() types.Hash {
	return crypto.SigningDigest(tx.PartialHex())
}

// Hash returns the transaction hash: SHA-256 over the full encoding.
func (tx *Transaction) Hash() types.Hash {
	tx.seal()
	return tx.hash
}

// Equal reports whether two transactions have identical full encodings.
func (tx *Transaction) Equal(other *Transaction) bool {
	if tx == nil || other == nil {
		return tx == other
	}
	return bytes.Equal(tx.Bytes(), other.Bytes())
}

// Signatures returns the distinct input signatures in order of first
// appearance. Unsigned inputs contribute nothing.
func (tx *Transaction) Signatures() []crypto.Signature {
	var sigs []crypto.Signature
	for _, in := range tx.inputs {
		if !in.Signed() {
			continue
		}
		dup := false
		for _, s := range sigs {
			if s.Equal(in.Signature) {
				dup = true
				break
			}
		}
		if !dup {
			sigs = append(sigs, in.Signature.Copy())
		}
	}
	return sigs
}

type inputJSON struct {
	TxHash    types.Hash      `json:"tx_hash"`
	Index     uint8           `json:"index"`
	Type      types.InputType `json:"input_type"`
	Amount    string          `json:"amount,omitempty"`
	Signature string          `json:"signature,omitempty"`
}

type outputJSON struct {
	Address string           `json:"address"`
	Amount  string           `json:"amount"`
	Type    types.OutputType `json:"output_type"`
}

type transactionJSON struct {
	Hash    types.Hash            `json:"hash"`
	Version uint8                 `json:"version"`
	Type    types.TransactionType `json:"transaction_type"`
	Message string                `json:"message,omitempty"`
	Inputs  []inputJSON           `json:"inputs"`
	Outputs []outputJSON          `json:"outputs"`
}

// MarshalJSON renders a human-readable view of the transaction.
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	j := transactionJSON{
		Hash:    tx.Hash(),
		Version: tx.version,
		Type:    tx.Type(),
		Message: hex.EncodeToString(tx.message),
		Inputs:  make([]inputJSON, 0, len(tx.inputs)),
		Outputs: make([]outputJSON, 0, len(tx.outputs)),
	}
	for _, in := range tx.inputs {
		ij := inputJSON{TxHash: in.PrevOut.TxHash, Index: in.PrevOut.Index, Type: in.Type}
		if !in.Amount.IsZero() {
			ij.Amount = in.Amount.String()
		}
		if in.Signed() {
			ij.Signature = in.Signature.String()
		}
		j.Inputs = append(j.Inputs, ij)
	}
	for _, out := range tx.outputs {
		j.Outputs = append(j.Outputs, outputJSON{
			Address: out.Address(),
			Amount:  out.amount.String(),
			Type:    out.typ,
		})
	}
	return json.Marshal(j)
}
