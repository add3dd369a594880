package wallet

import (
	"strings"

	"github.com/upow-network/upow-wallet/internal/rpcclient"
	"github.com/upow-network/upow-wallet/pkg/tx"
	"github.com/upow-network/upow-wallet/pkg/types"
)

// outpointSet holds outputs already consumed by pending transactions.
type outpointSet map[types.Outpoint]struct{}

func newOutpointSet(records []rpcclient.OutputRecord) (outpointSet, error) {
	set := make(outpointSet, len(records))
	for _, r := range records {
		op, err := r.Outpoint()
		if err != nil {
			return nil, err
		}
		set[op] = struct{}{}
	}
	return set, nil
}

func (s outpointSet) has(op types.Outpoint) bool {
	_, ok := s[op]
	return ok
}

// ownedInputs turns node output records into inputs owned by owner.
// Records with a zero amount are skipped, as are records in pending when
// pending is non-nil.
func ownedInputs(records []rpcclient.OutputRecord, owner types.Point, pending outpointSet) ([]tx.Input, error) {
	inputs := make([]tx.Input, 0, len(records))
	for _, r := range records {
		if !r.Amount.IsPositive() {
			continue
		}
		op, err := r.Outpoint()
		if err != nil {
			return nil, err
		}
		if pending.has(op) {
			continue
		}
		inputs = append(inputs, tx.NewInput(op, owner, r.Amount))
	}
	return inputs, nil
}

// hasPositive reports whether any record carries a non-zero amount.
func hasPositive(records []rpcclient.OutputRecord) bool {
	for _, r := range records {
		if r.Amount.IsPositive() {
			return true
		}
	}
	return false
}

// sameAddress compares hex addresses case-insensitively.
func sameAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
