package tx

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/types"
)

// Transaction errors.
var (
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported transaction version", types.ErrInvalidEncoding)
	ErrMixedAddressWidth  = fmt.Errorf("%w: outputs mix address widths", types.ErrInvalidEncoding)
	ErrTooManyInputs      = errors.New("too many inputs")
	ErrTooManyOutputs     = errors.New("too many outputs")
	ErrMessageTooLong     = errors.New("message too long")
	ErrSignatureMissing   = errors.New("input not signed")
	ErrSignatureInvalid   = errors.New("invalid signature")
	ErrUnresolvedInput    = errors.New("cannot resolve input")
	ErrNoInputs           = errors.New("transaction has no inputs")
	ErrNoOutputs          = errors.New("transaction has no outputs")
	ErrDuplicateInput     = errors.New("duplicate input")
	ErrZeroOutput         = errors.New("output amount is zero")
)

// Validate checks transaction structure. It does not check signatures or
// whether the inputs are still unspent.
func (tx *Transaction) Validate() error {
	if len(tx.inputs) == 0 {
		return ErrNoInputs
	}
	if len(tx.outputs) == 0 {
		return ErrNoOutputs
	}

	seen := make(map[types.Outpoint]bool, len(tx.inputs))
	for i, in := range tx.inputs {
		if seen[in.PrevOut] {
			return fmt.Errorf("input %d: %w", i, ErrDuplicateInput)
		}
		seen[in.PrevOut] = true
	}

	for i, out := range tx.outputs {
		if err := out.Verify(); err != nil {
			return fmt.Errorf("output %d: %w", i, err)
		}
	}
	return nil
}

// Verify checks every input signature against the partial encoding.
// Each distinct (owner, signature) pair is verified once.
func (tx *Transaction) Verify(ctx context.Context, r Resolver) error {
	digest := tx.SigningDigest()
	resolver := newMemoResolver(r)
	checked := make(map[string]bool)

	for i, in := range tx.inputs {
		if !in.Signed() {
			return fmt.Errorf("input %d: %w", i, ErrSignatureMissing)
		}
		pub, err := in.PublicKey(ctx, resolver)
		if err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		owner, err := types.PointToString(pub, types.AddressCompressed)
		if err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		pair := owner + in.Signature.String()
		if checked[pair] {
			continue
		}
		if !crypto.VerifySignature(pub, digest[:], in.Signature) {
			return fmt.Errorf("input %d: %w", i, ErrSignatureInvalid)
		}
		checked[pair] = true
	}
	return nil
}

// memoResolver caches lookups so inputs spending the same transaction
// query it once.
type memoResolver struct {
	next Resolver

	mu    sync.Mutex
	cache map[types.Hash]*PrevTxInfo
}

func newMemoResolver(next Resolver) Resolver {
	if next == nil {
		return nil
	}
	return &memoResolver{next: next, cache: make(map[types.Hash]*PrevTxInfo)}
}

func (m *memoResolver) TransactionInfo(ctx context.Context, hash types.Hash) (*PrevTxInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if info, ok := m.cache[hash]; ok {
		return info, nil
	}
	info, err := m.next.TransactionInfo(ctx, hash)
	if err != nil {
		return nil, err
	}
	m.cache[hash] = info
	return info, nil
}
