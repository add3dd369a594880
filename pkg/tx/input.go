package tx

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/types"
)

// InputSize is the wire size of an input: hash(32) | index(1) | type(1).
const InputSize = types.HashSize + 2

// PrevTxInfo describes a prior transaction as reported by a node.
type PrevTxInfo struct {
	InputAddresses  []string
	OutputAddresses []string
	OutputAmounts   []decimal.Decimal
}

// Resolver looks up prior transactions for inputs that carry neither a
// public key nor the transaction they spend from.
type Resolver interface {
	TransactionInfo(ctx context.Context, hash types.Hash) (*PrevTxInfo, error)
}

// Input spends an output of a prior transaction.
//
// The owner of the referenced output is known in one of two ways: PubKey
// is set directly, or PrevTx holds the transaction being spent. When
// neither is present it is looked up through a Resolver.
type Input struct {
	PrevOut types.Outpoint
	Type    types.InputType
	// Amount of the referenced output, zero if unknown.
	Amount    decimal.Decimal
	PubKey    *types.Point
	PrevTx    *Transaction
	Signature crypto.Signature
}

// NewInput creates a REGULAR input with a known owner and amount.
func NewInput(prevOut types.Outpoint, owner types.Point, amount decimal.Decimal) Input {
	p := owner
	return Input{PrevOut: prevOut, Type: types.InputRegular, Amount: amount, PubKey: &p}
}

// clone returns in with its signature and key detached from the original.
func (in Input) clone() Input {
	in.Signature = in.Signature.Copy()
	if in.PubKey != nil {
		p := in.PubKey.Copy()
		in.PubKey = &p
	}
	return in
}

func cloneInputs(inputs []Input) []Input {
	out := make([]Input, len(inputs))
	for i, in := range inputs {
		out[i] = in.clone()
	}
	return out
}

// Bytes returns the wire encoding of the input.
func (in Input) Bytes() []byte {
	buf := make([]byte, 0, InputSize)
	buf = append(buf, in.PrevOut.TxHash[:]...)
	buf = append(buf, in.PrevOut.Index, byte(in.Type))
	return buf
}

// Signed reports whether a signature is attached.
func (in Input) Signed() bool { return !in.Signature.IsZero() }

// localPublicKey returns the owner's key when it is known without a lookup.
func (in Input) localPublicKey() (types.Point, bool) {
	if in.PubKey != nil {
		return *in.PubKey, true
	}
	if in.PrevTx != nil && int(in.PrevOut.Index) < len(in.PrevTx.outputs) {
		return in.PrevTx.outputs[in.PrevOut.Index].point, true
	}
	return types.Point{}, false
}

func (in Input) lookup(ctx context.Context, r Resolver) (*PrevTxInfo, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %s has no resolver", ErrUnresolvedInput, in.PrevOut)
	}
	info, err := r.TransactionInfo(ctx, in.PrevOut.TxHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnresolvedInput, in.PrevOut, err)
	}
	return info, nil
}

// ResolveAmount returns the value of the referenced output.
func (in Input) ResolveAmount(ctx context.Context, r Resolver) (decimal.Decimal, error) {
	if in.PrevTx != nil {
		if int(in.PrevOut.Index) >= len(in.PrevTx.outputs) {
			return decimal.Zero, fmt.Errorf("%w: %s out of range", ErrUnresolvedInput, in.PrevOut)
		}
		return in.PrevTx.outputs[in.PrevOut.Index].amount, nil
	}
	if !in.Amount.IsZero() {
		return in.Amount, nil
	}
	info, err := in.lookup(ctx, r)
	if err != nil {
		return decimal.Zero, err
	}
	if int(in.PrevOut.Index) >= len(info.OutputAmounts) {
		return decimal.Zero, fmt.Errorf("%w: %s out of range", ErrUnresolvedInput, in.PrevOut)
	}
	return info.OutputAmounts[in.PrevOut.Index], nil
}

// ResolveAddress returns the hex address owning the referenced output.
func (in Input) ResolveAddress(ctx context.Context, r Resolver) (string, error) {
	if in.PrevTx != nil {
		if int(in.PrevOut.Index) >= len(in.PrevTx.outputs) {
			return "", fmt.Errorf("%w: %s out of range", ErrUnresolvedInput, in.PrevOut)
		}
		return in.PrevTx.outputs[in.PrevOut.Index].Address(), nil
	}
	info, err := in.lookup(ctx, r)
	if err != nil {
		return "", err
	}
	if int(in.PrevOut.Index) >= len(info.OutputAddresses) {
		return "", fmt.Errorf("%w: %s out of range", ErrUnresolvedInput, in.PrevOut)
	}
	return info.OutputAddresses[in.PrevOut.Index], nil
}

// PublicKey returns the owner of the referenced output.
func (in Input) PublicKey(ctx context.Context, r Resolver) (types.Point, error) {
	if p, ok := in.localPublicKey(); ok {
		return p, nil
	}
	addr, err := in.ResolveAddress(ctx, r)
	if err != nil {
		return types.Point{}, err
	}
	p, err := types.StringToPoint(addr)
	if err != nil {
		return types.Point{}, fmt.Errorf("%w: %s: %v", ErrUnresolvedInput, in.PrevOut, err)
	}
	return p, nil
}

// VoterPublicKey returns the key that funded the referenced transaction,
// that is the owner of its first input. Revocations are signed by the
// original voter rather than by the vote recipient.
func (in Input) VoterPublicKey(ctx context.Context, r Resolver) (types.Point, error) {
	if in.PubKey != nil {
		return *in.PubKey, nil
	}
	if in.PrevTx != nil {
		if len(in.PrevTx.inputs) == 0 {
			return types.Point{}, fmt.Errorf("%w: %s spends a transaction with no inputs", ErrUnresolvedInput, in.PrevOut)
		}
		return in.PrevTx.inputs[0].PublicKey(ctx, r)
	}
	info, err := in.lookup(ctx, r)
	if err != nil {
		return types.Point{}, err
	}
	if len(info.InputAddresses) == 0 {
		return types.Point{}, fmt.Errorf("%w: %s spends a transaction with no inputs", ErrUnresolvedInput, in.PrevOut)
	}
	p, err := types.StringToPoint(info.InputAddresses[0])
	if err != nil {
		return types.Point{}, fmt.Errorf("%w: %s: %v", ErrUnresolvedInput, in.PrevOut, err)
	}
	return p, nil
}
