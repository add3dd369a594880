package rpcclient

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/upow-network/upow-wallet/pkg/types"
)

// OutputRecord is an output reported by the node: spendable, stake,
// vote or inode-registration.
type OutputRecord struct {
	TxHash  string          `json:"tx_hash"`
	Index   uint8           `json:"index"`
	Amount  decimal.Decimal `json:"amount"`
	Address string          `json:"address,omitempty"`
}

// Outpoint parses the record's reference.
func (r OutputRecord) Outpoint() (types.Outpoint, error) {
	op, err := types.NewOutpoint(r.TxHash, r.Index)
	if err != nil {
		return types.Outpoint{}, fmt.Errorf("output %s:%d: %w", r.TxHash, r.Index, err)
	}
	return op, nil
}

// PendingInput is an input of a mempool transaction.
type PendingInput struct {
	Address string          `json:"address"`
	TxHash  string          `json:"tx_hash"`
	Index   uint8           `json:"index"`
	Amount  decimal.Decimal `json:"amount"`
}

// PendingOutput is an output of a mempool transaction.
type PendingOutput struct {
	Address string           `json:"address"`
	Amount  decimal.Decimal  `json:"amount"`
	Type    types.OutputType `json:"type"`
}

// PendingTransaction is a mempool transaction touching an address.
type PendingTransaction struct {
	Hash            string                `json:"hash"`
	TransactionType types.TransactionType `json:"transaction_type"`
	Inputs          []PendingInput        `json:"inputs"`
	Outputs         []PendingOutput       `json:"outputs"`
}

// HasOutputType reports whether any output carries typ.
func (p PendingTransaction) HasOutputType(typ types.OutputType) bool {
	for _, out := range p.Outputs {
		if out.Type == typ {
			return true
		}
	}
	return false
}

// AddressInfo is the result of /get_address_info. Optional sections are
// empty unless requested through AddressInfoFlags.
type AddressInfo struct {
	Balance                  decimal.Decimal      `json:"balance"`
	Stake                    decimal.Decimal      `json:"stake"`
	SpendableOutputs         []OutputRecord       `json:"spendable_outputs"`
	StakeOutputs             []OutputRecord       `json:"stake_outputs"`
	PendingSpentOutputs      []OutputRecord       `json:"pending_spent_outputs"`
	PendingTransactions      []PendingTransaction `json:"pending_transactions"`
	InodeRegistrationOutputs []OutputRecord       `json:"inode_registration_outputs"`
	DelegateSpentVotes       []OutputRecord       `json:"delegate_spent_votes"`
	DelegateUnspentVotes     []OutputRecord       `json:"delegate_unspent_votes"`
	ValidatorUnspentVotes    []OutputRecord       `json:"validator_unspent_votes"`
	IsInode                  bool                 `json:"is_inode"`
	IsValidator              bool                 `json:"is_validator"`
}

// AddressInfoFlags selects the optional sections of AddressInfo.
type AddressInfoFlags struct {
	StakeOutputs             bool
	DelegateSpentVotes       bool
	DelegateUnspentVotes     bool
	AddressState             bool
	InodeRegistrationOutputs bool
	ValidatorUnspentVotes    bool
}

// VoteRecord is one vote inside a ballot.
type VoteRecord struct {
	Wallet    string          `json:"wallet"`
	TxHash    string          `json:"tx_hash"`
	Index     uint8           `json:"index"`
	VoteCount decimal.Decimal `json:"vote_count"`
}

// ValidatorBallot lists the votes a validator cast for inodes.
type ValidatorBallot struct {
	Validator string       `json:"validator"`
	Votes     []VoteRecord `json:"vote"`
}

// DelegateBallot lists the votes a delegate cast for validators.
type DelegateBallot struct {
	Delegate string       `json:"delegate"`
	Votes    []VoteRecord `json:"vote"`
}

// DobbyEntry is an active inode.
type DobbyEntry struct {
	Wallet string `json:"wallet"`
}

// TransactionInfo is the subset of /get_transaction the wallet uses.
// Amounts are in smallest units.
type TransactionInfo struct {
	Hash             string   `json:"hash"`
	InputsAddresses  []string `json:"inputs_addresses"`
	OutputsAddresses []string `json:"outputs_addresses"`
	OutputsAmounts   []uint64 `json:"outputs_amounts"`
}
