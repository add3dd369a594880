package wallet

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/upow-network/upow-wallet/internal/rpcclient"
	"github.com/upow-network/upow-wallet/pkg/types"
)

// Balance is the confirmed and pending state of one address.
type Balance struct {
	Balance      decimal.Decimal `json:"balance"`
	Pending      decimal.Decimal `json:"pending_balance"`
	Stake        decimal.Decimal `json:"stake"`
	PendingStake decimal.Decimal `json:"pending_stake"`
}

// Reconcile merges the confirmed state reported for address with its
// pending transactions.
//
// A pending input that spends one of the address's spendable outputs
// moves funds back (unstake) or out (regular transfer). Pending outputs
// paying the address change the stake or the balance by their type.
func Reconcile(info *rpcclient.AddressInfo, address string) Balance {
	spendable := make(map[string]struct{}, len(info.SpendableOutputs))
	for _, r := range info.SpendableOutputs {
		spendable[outpointKey(r.TxHash, r.Index)] = struct{}{}
	}

	pending := decimal.Zero
	pendingStake := decimal.Zero
	for _, ptx := range info.PendingTransactions {
		unstake := ptx.HasOutputType(types.OutputUnStake)
		for _, in := range ptx.Inputs {
			if !sameAddress(in.Address, address) {
				continue
			}
			if _, ok := spendable[outpointKey(in.TxHash, in.Index)]; !ok {
				continue
			}
			switch {
			case unstake:
				pending = pending.Add(in.Amount)
			case ptx.TransactionType == types.TxRegular:
				pending = pending.Sub(in.Amount)
			}
		}
		for _, out := range ptx.Outputs {
			if !sameAddress(out.Address, address) {
				continue
			}
			switch out.Type {
			case types.OutputStake:
				pendingStake = pendingStake.Add(out.Amount)
			case types.OutputUnStake:
				pendingStake = pendingStake.Sub(out.Amount)
			case types.OutputRegular:
				pending = pending.Add(out.Amount)
			}
		}
	}

	return Balance{
		Balance:      types.Quantize(info.Balance),
		Pending:      types.Quantize(pending),
		Stake:        types.Quantize(info.Stake),
		PendingStake: types.Quantize(pendingStake),
	}
}

func outpointKey(hash string, index uint8) string {
	return fmt.Sprintf("%s:%d", strings.ToLower(hash), index)
}
