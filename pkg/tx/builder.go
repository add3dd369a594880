package tx

import (
	"fmt"

	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/types"
)

// Builder assembles a transaction. It is the mutable, unsealed form;
// Build returns an immutable Transaction.
type Builder struct {
	inputs  []Input
	outputs []Output
	message []byte
	version uint8
}

// NewBuilder creates an empty transaction builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddInput appends an input.
func (b *Builder) AddInput(in Input) *Builder {
	b.inputs = append(b.inputs, in)
	return b
}

// AddInputs appends several inputs.
func (b *Builder) AddInputs(ins ...Input) *Builder {
	b.inputs = append(b.inputs, ins...)
	return b
}

// AddOutput appends an output.
func (b *Builder) AddOutput(out Output) *Builder {
	b.outputs = append(b.outputs, out)
	return b
}

// AddOutputs appends several outputs.
func (b *Builder) AddOutputs(outs ...Output) *Builder {
	b.outputs = append(b.outputs, outs...)
	return b
}

// SetMessage attaches an opaque message. A nil message means none.
func (b *Builder) SetMessage(msg []byte) *Builder {
	if msg == nil {
		b.message = nil
	} else {
		b.message = append([]byte{}, msg...)
	}
	return b
}

// SetType marks the transaction with the message for t.
func (b *Builder) SetType(t types.TransactionType) *Builder {
	return b.SetMessage(t.Message())
}

// Sign signs every input owned by one of signers. Inputs whose owner is
// unknown locally or matches none of the signers keep their current
// signature. Signing is deterministic, so inputs sharing an owner carry
// identical signatures and are emitted once.
func (b *Builder) Sign(signers ...crypto.Signer) error {
	draft, err := newTransaction(b.inputs, b.outputs, b.message, b.version)
	if err != nil {
		return fmt.Errorf("sign tx: %w", err)
	}
	digest := draft.SigningDigest()

	pubs := make([]types.Point, len(signers))
	for k, s := range signers {
		pubs[k] = s.PublicKey()
	}
	cache := make(map[int]crypto.Signature, len(signers))
	for i := range b.inputs {
		owner, ok := b.inputs[i].localPublicKey()
		if !ok {
			continue
		}
		for k, pub := range pubs {
			if !pub.Equal(owner) {
				continue
			}
			sig, cached := cache[k]
			if !cached {
				sig, err = signers[k].Sign(digest[:])
				if err != nil {
					return fmt.Errorf("sign input %d: %w", i, err)
				}
				cache[k] = sig
			}
			b.inputs[i].Signature = sig
			break
		}
	}
	return nil
}

// Build seals the transaction. It does not run Validate.
func (b *Builder) Build() (*Transaction, error) {
	return newTransaction(b.inputs, b.outputs, b.message, b.version)
}
