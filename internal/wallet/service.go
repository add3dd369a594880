package wallet

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	klog "github.com/upow-network/upow-wallet/internal/log"
	"github.com/upow-network/upow-wallet/internal/rpcclient"
	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/tx"
	"github.com/upow-network/upow-wallet/pkg/types"
)

// Protocol amounts.
var (
	InodeRegistrationAmount     = decimal.NewFromInt(1000)
	ValidatorRegistrationAmount = decimal.NewFromInt(100)
	MaxVotingPower              = decimal.NewFromInt(10)
)

// MaxInodes is the number of active inodes at which registration closes.
const MaxInodes = 12

// Ledger is the node state the builders read from.
type Ledger interface {
	AddressInfo(ctx context.Context, address string, flags rpcclient.AddressInfoFlags) (*rpcclient.AddressInfo, error)
	ValidatorsInfo(ctx context.Context, inode string) ([]rpcclient.ValidatorBallot, error)
	DelegatesInfo(ctx context.Context, validator string) ([]rpcclient.DelegateBallot, error)
	DobbyInfo(ctx context.Context) ([]rpcclient.DobbyEntry, error)
}

// Service builds and signs transactions for one ledger.
type Service struct {
	ledger Ledger
	format types.AddressFormat
	log    zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithAddressFormat selects the address form used for the wallet's own
// outputs and node queries.
func WithAddressFormat(f types.AddressFormat) Option {
	return func(s *Service) { s.format = f }
}

// WithLogger replaces the wallet component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New creates a Service reading from ledger.
func New(ledger Ledger, opts ...Option) *Service {
	s := &Service{ledger: ledger, format: types.AddressCompressed, log: klog.Wallet}
	for _, o := range opts {
		o(s)
	}
	return s
}

// account is the signing key with its derived forms.
type account struct {
	key     *crypto.PrivateKey
	pub     types.Point
	address string
}

func (s *Service) account(key *crypto.PrivateKey) (account, error) {
	addr, err := key.Address(s.format)
	if err != nil {
		return account{}, err
	}
	return account{key: key, pub: key.PublicKey(), address: addr}, nil
}

// output pays amount of typ back to the account.
func (a account) output(amount decimal.Decimal, typ types.OutputType, format types.AddressFormat) (tx.Output, error) {
	return tx.NewOutputFromPoint(a.pub, format, amount, typ)
}

func (s *Service) addressInfo(ctx context.Context, acct account, flags rpcclient.AddressInfoFlags) (*rpcclient.AddressInfo, outpointSet, error) {
	info, err := s.ledger.AddressInfo(ctx, acct.address, flags)
	if err != nil {
		return nil, nil, err
	}
	pending, err := newOutpointSet(info.PendingSpentOutputs)
	if err != nil {
		return nil, nil, err
	}
	return info, pending, nil
}

// spendable returns unspent, non-pending regular inputs covering at
// least target.
func (s *Service) spendable(info *rpcclient.AddressInfo, acct account, pending outpointSet, target decimal.Decimal) ([]tx.Input, error) {
	inputs, err := ownedInputs(info.SpendableOutputs, acct.pub, pending)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no spendable outputs", ErrInsufficientFunds)
	}
	if total := totalAmount(inputs); total.LessThan(target) {
		return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientFunds, total, target)
	}
	return inputs, nil
}

func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	return types.CheckPrecision(amount)
}

// seal signs the inputs owned by acct and seals the transaction.
func (s *Service) seal(b *tx.Builder, acct account, op string) (*tx.Transaction, error) {
	if err := b.Sign(acct.key); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	t, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Debug().
		Str("op", op).
		Str("hash", t.Hash().String()).
		Int("inputs", t.NumInputs()).
		Int("outputs", t.NumOutputs()).
		Msg("transaction built")
	return t, nil
}

// Send pays amount to address. Change goes to sendBack, or back to the
// sender when sendBack is empty. message is attached verbatim.
func (s *Service) Send(ctx context.Context, key *crypto.PrivateKey, to string, amount decimal.Decimal, message []byte, sendBack string) (*tx.Transaction, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	acct, err := s.account(key)
	if err != nil {
		return nil, err
	}
	info, pending, err := s.addressInfo(ctx, acct, rpcclient.AddressInfoFlags{})
	if err != nil {
		return nil, err
	}
	inputs, err := s.spendable(info, acct, pending, amount)
	if err != nil {
		return nil, err
	}
	sel, err := SelectCoins(inputs, amount)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("selected", len(sel.Inputs)).Str("change", sel.Change.String()).Msg("send inputs selected")

	pay, err := tx.NewOutput(to, amount, types.OutputRegular)
	if err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	b := tx.NewBuilder().AddInputs(sel.Inputs...).AddOutput(pay).SetMessage(message)
	if sel.Change.IsPositive() {
		var change tx.Output
		if sendBack != "" {
			change, err = tx.NewOutput(sendBack, sel.Change, types.OutputRegular)
		} else {
			change, err = acct.output(sel.Change, types.OutputRegular, s.format)
		}
		if err != nil {
			return nil, fmt.Errorf("change: %w", err)
		}
		b.AddOutput(change)
	}
	return s.seal(b, acct, "send")
}

// SendMany pays amounts[i] to addresses[i] with a single change output.
func (s *Service) SendMany(ctx context.Context, key *crypto.PrivateKey, addresses []string, amounts []decimal.Decimal, message []byte) (*tx.Transaction, error) {
	if len(addresses) != len(amounts) {
		return nil, fmt.Errorf("%w: %d addresses, %d amounts", ErrRecipientMismatch, len(addresses), len(amounts))
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("%w: no recipients", ErrInvalidAmount)
	}
	outputs := make([]tx.Output, len(addresses))
	total := decimal.Zero
	for i, addr := range addresses {
		if err := checkAmount(amounts[i]); err != nil {
			return nil, fmt.Errorf("recipient %d: %w", i, err)
		}
		out, err := tx.NewOutput(addr, amounts[i], types.OutputRegular)
		if err != nil {
			return nil, fmt.Errorf("recipient %d: %w", i, err)
		}
		outputs[i] = out
		total = total.Add(amounts[i])
	}

	acct, err := s.account(key)
	if err != nil {
		return nil, err
	}
	info, pending, err := s.addressInfo(ctx, acct, rpcclient.AddressInfoFlags{})
	if err != nil {
		return nil, err
	}
	inputs, err := s.spendable(info, acct, pending, total)
	if err != nil {
		return nil, err
	}
	sel, err := SelectLargestFirst(inputs, total)
	if err != nil {
		return nil, err
	}

	b := tx.NewBuilder().AddInputs(sel.Inputs...).AddOutputs(outputs...).SetMessage(message)
	if sel.Change.IsPositive() {
		change, err := acct.output(sel.Change, types.OutputRegular, s.format)
		if err != nil {
			return nil, fmt.Errorf("change: %w", err)
		}
		b.AddOutput(change)
	}
	return s.seal(b, acct, "send many")
}

// Stake locks amount as the account's stake. An account without any
// delegate votes also receives its initial delegate voting power.
func (s *Service) Stake(ctx context.Context, key *crypto.PrivateKey, amount decimal.Decimal) (*tx.Transaction, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	acct, err := s.account(key)
	if err != nil {
		return nil, err
	}
	info, pending, err := s.addressInfo(ctx, acct, rpcclient.AddressInfoFlags{
		StakeOutputs:         true,
		DelegateSpentVotes:   true,
		DelegateUnspentVotes: true,
	})
	if err != nil {
		return nil, err
	}
	if hasPositive(info.StakeOutputs) {
		return nil, ErrAlreadyStaked
	}
	inputs, err := s.spendable(info, acct, pending, amount)
	if err != nil {
		return nil, err
	}
	sel, err := SelectCoins(inputs, amount)
	if err != nil {
		return nil, err
	}

	stake, err := acct.output(amount, types.OutputStake, s.format)
	if err != nil {
		return nil, err
	}
	b := tx.NewBuilder().AddInputs(sel.Inputs...).AddOutput(stake)
	if sel.Change.IsPositive() {
		change, err := acct.output(sel.Change, types.OutputRegular, s.format)
		if err != nil {
			return nil, err
		}
		b.AddOutput(change)
	}

	power, votes := delegatePower(info)
	if power.GreaterThan(MaxVotingPower) {
		return nil, fmt.Errorf("%w: %s", ErrDelegatePowerExceeded, power)
	}
	if votes == 0 {
		vp, err := acct.output(MaxVotingPower, types.OutputDelegateVotingPower, s.format)
		if err != nil {
			return nil, err
		}
		b.AddOutput(vp)
	}
	return s.seal(b, acct, "stake")
}

// delegatePower sums the delegate's spent and unspent votes.
func delegatePower(info *rpcclient.AddressInfo) (decimal.Decimal, int) {
	total := decimal.Zero
	n := 0
	for _, set := range [][]rpcclient.OutputRecord{info.DelegateUnspentVotes, info.DelegateSpentVotes} {
		for _, r := range set {
			if !r.Amount.IsPositive() {
				continue
			}
			total = total.Add(r.Amount)
			n++
		}
	}
	return total, n
}

// Unstake releases the account's stake.
func (s *Service) Unstake(ctx context.Context, key *crypto.PrivateKey) (*tx.Transaction, error) {
	acct, err := s.account(key)
	if err != nil {
		return nil, err
	}
	info, pending, err := s.addressInfo(ctx, acct, rpcclient.AddressInfoFlags{
		StakeOutputs:       true,
		DelegateSpentVotes: true,
	})
	if err != nil {
		return nil, err
	}
	stakes, err := ownedInputs(info.StakeOutputs, acct.pub, pending)
	if err != nil {
		return nil, err
	}
	if len(stakes) == 0 {
		return nil, ErrNotStaked
	}
	if hasPositive(info.DelegateSpentVotes) {
		return nil, fmt.Errorf("%w: release the votes first", ErrNotEligible)
	}
	for _, ptx := range info.PendingTransactions {
		if ptx.TransactionType == types.TxVoteAsDelegate && len(ptx.Inputs) > 0 && sameAddress(ptx.Inputs[0].Address, acct.address) {
			return nil, fmt.Errorf("%w: a vote is still pending", ErrNotEligible)
		}
	}

	stake := stakes[0]
	out, err := acct.output(stake.Amount, types.OutputUnStake, s.format)
	if err != nil {
		return nil, err
	}
	b := tx.NewBuilder().AddInput(stake).AddOutput(out)
	return s.seal(b, acct, "unstake")
}

// RegisterInode registers the account as an inode.
func (s *Service) RegisterInode(ctx context.Context, key *crypto.PrivateKey) (*tx.Transaction, error) {
	acct, err := s.account(key)
	if err != nil {
		return nil, err
	}
	info, pending, err := s.addressInfo(ctx, acct, rpcclient.AddressInfoFlags{
		StakeOutputs: true,
		AddressState: true,
	})
	if err != nil {
		return nil, err
	}
	inputs, err := s.spendable(info, acct, pending, InodeRegistrationAmount)
	if err != nil {
		return nil, err
	}
	if !hasPositive(info.StakeOutputs) {
		return nil, fmt.Errorf("%w: stake before registering as an inode", ErrNotStaked)
	}
	if info.IsInode {
		return nil, fmt.Errorf("%w: already an inode", ErrAlreadyRegistered)
	}
	if info.IsValidator {
		return nil, fmt.Errorf("%w: validators cannot become inodes", ErrNotEligible)
	}
	dobby, err := s.ledger.DobbyInfo(ctx)
	if err != nil {
		return nil, err
	}
	if len(dobby) >= MaxInodes {
		return nil, fmt.Errorf("%w: %d inodes already active", ErrNotEligible, len(dobby))
	}

	sel, err := SelectCoins(inputs, InodeRegistrationAmount)
	if err != nil {
		return nil, err
	}
	reg, err := acct.output(InodeRegistrationAmount, types.OutputInodeRegistration, s.format)
	if err != nil {
		return nil, err
	}
	b := tx.NewBuilder().AddInputs(sel.Inputs...).AddOutput(reg)
	if sel.Change.IsPositive() {
		change, err := acct.output(sel.Change, types.OutputRegular, s.format)
		if err != nil {
			return nil, err
		}
		b.AddOutput(change)
	}
	return s.seal(b, acct, "register inode")
}

// DeregisterInode returns the inode registration amount to the account.
// Active inodes cannot de-register.
func (s *Service) DeregisterInode(ctx context.Context, key *crypto.PrivateKey) (*tx.Transaction, error) {
	acct, err := s.account(key)
	if err != nil {
		return nil, err
	}
	info, pending, err := s.addressInfo(ctx, acct, rpcclient.AddressInfoFlags{InodeRegistrationOutputs: true})
	if err != nil {
		return nil, err
	}
	regs, err := ownedInputs(info.InodeRegistrationOutputs, acct.pub, pending)
	if err != nil {
		return nil, err
	}
	if len(regs) == 0 {
		return nil, fmt.Errorf("%w: not registered as an inode", ErrNotEligible)
	}
	dobby, err := s.ledger.DobbyInfo(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range dobby {
		if sameAddress(e.Wallet, acct.address) {
			return nil, fmt.Errorf("%w: inode is active", ErrNotEligible)
		}
	}

	out, err := acct.output(regs[0].Amount, types.OutputRegular, s.format)
	if err != nil {
		return nil, err
	}
	b := tx.NewBuilder().AddInputs(regs...).AddOutput(out).SetType(types.TxInodeDeRegistration)
	return s.seal(b, acct, "de-register inode")
}

// RegisterValidator registers the account as a validator and grants it
// its validator voting power.
func (s *Service) RegisterValidator(ctx context.Context, key *crypto.PrivateKey) (*tx.Transaction, error) {
	acct, err := s.account(key)
	if err != nil {
		return nil, err
	}
	info, pending, err := s.addressInfo(ctx, acct, rpcclient.AddressInfoFlags{
		StakeOutputs: true,
		AddressState: true,
	})
	if err != nil {
		return nil, err
	}
	inputs, err := s.spendable(info, acct, pending, ValidatorRegistrationAmount)
	if err != nil {
		return nil, err
	}
	if !hasPositive(info.StakeOutputs) {
		return nil, fmt.Errorf("%w: stake before registering as a validator", ErrNotStaked)
	}
	if info.IsValidator {
		return nil, fmt.Errorf("%w: already a validator", ErrAlreadyRegistered)
	}
	if info.IsInode {
		return nil, fmt.Errorf("%w: inodes cannot become validators", ErrNotEligible)
	}

	sel, err := SelectCoins(inputs, ValidatorRegistrationAmount)
	if err != nil {
		return nil, err
	}
	reg, err := acct.output(ValidatorRegistrationAmount, types.OutputValidatorRegistration, s.format)
	if err != nil {
		return nil, err
	}
	power, err := acct.output(MaxVotingPower, types.OutputValidatorVotingPower, s.format)
	if err != nil {
		return nil, err
	}
	b := tx.NewBuilder().AddInputs(sel.Inputs...).AddOutputs(reg, power).SetType(types.TxValidatorRegistration)
	if sel.Change.IsPositive() {
		change, err := acct.output(sel.Change, types.OutputRegular, s.format)
		if err != nil {
			return nil, err
		}
		b.AddOutput(change)
	}
	return s.seal(b, acct, "register validator")
}

// Vote spends votingRange of the account's voting power on target.
// Validators vote for inodes, staked delegates vote for validators.
func (s *Service) Vote(ctx context.Context, key *crypto.PrivateKey, votingRange decimal.Decimal, target string) (*tx.Transaction, error) {
	if !votingRange.IsPositive() || votingRange.GreaterThan(MaxVotingPower) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidVoteRange, votingRange)
	}
	if err := types.CheckPrecision(votingRange); err != nil {
		return nil, err
	}
	acct, err := s.account(key)
	if err != nil {
		return nil, err
	}
	info, pending, err := s.addressInfo(ctx, acct, rpcclient.AddressInfoFlags{
		StakeOutputs:          true,
		DelegateUnspentVotes:  true,
		AddressState:          true,
		ValidatorUnspentVotes: true,
	})
	if err != nil {
		return nil, err
	}
	if info.IsInode {
		return nil, fmt.Errorf("%w: inodes cannot vote", ErrNotEligible)
	}

	var (
		records  []rpcclient.OutputRecord
		txType   types.TransactionType
		voteType types.OutputType
		leftType types.OutputType
	)
	switch {
	case info.IsValidator:
		records, txType = info.ValidatorUnspentVotes, types.TxVoteAsValidator
		voteType, leftType = types.OutputVoteAsValidator, types.OutputValidatorVotingPower
	case hasPositive(info.StakeOutputs):
		records, txType = info.DelegateUnspentVotes, types.TxVoteAsDelegate
		voteType, leftType = types.OutputVoteAsDelegate, types.OutputDelegateVotingPower
	default:
		return nil, fmt.Errorf("%w: neither a validator nor a delegate", ErrNotEligible)
	}

	votes, err := ownedInputs(records, acct.pub, pending)
	if err != nil {
		return nil, err
	}
	if len(votes) == 0 {
		return nil, fmt.Errorf("%w: no voting power", ErrInsufficientFunds)
	}
	if total := totalAmount(votes); total.LessThan(votingRange) {
		return nil, fmt.Errorf("%w: voting power %s, need %s", ErrInsufficientFunds, total, votingRange)
	}
	sel, err := SelectCoins(votes, votingRange)
	if err != nil {
		return nil, err
	}

	vote, err := tx.NewOutput(target, votingRange, voteType)
	if err != nil {
		return nil, fmt.Errorf("vote target: %w", err)
	}
	b := tx.NewBuilder().AddInputs(sel.Inputs...).AddOutput(vote).SetType(txType)
	if sel.Change.IsPositive() {
		left, err := acct.output(sel.Change, leftType, s.format)
		if err != nil {
			return nil, err
		}
		b.AddOutput(left)
	}
	return s.seal(b, acct, "vote")
}

// Revoke takes back every vote the account cast for target.
func (s *Service) Revoke(ctx context.Context, key *crypto.PrivateKey, target string) (*tx.Transaction, error) {
	acct, err := s.account(key)
	if err != nil {
		return nil, err
	}
	info, pending, err := s.addressInfo(ctx, acct, rpcclient.AddressInfoFlags{AddressState: true})
	if err != nil {
		return nil, err
	}

	var (
		votes    []rpcclient.VoteRecord
		txType   types.TransactionType
		backType types.OutputType
	)
	if info.IsValidator {
		ballots, err := s.ledger.ValidatorsInfo(ctx, target)
		if err != nil {
			return nil, err
		}
		for _, b := range ballots {
			if sameAddress(b.Validator, acct.address) {
				votes = append(votes, b.Votes...)
			}
		}
		txType, backType = types.TxRevokeAsValidator, types.OutputValidatorVotingPower
	} else {
		ballots, err := s.ledger.DelegatesInfo(ctx, target)
		if err != nil {
			return nil, err
		}
		for _, b := range ballots {
			if sameAddress(b.Delegate, acct.address) {
				votes = append(votes, b.Votes...)
			}
		}
		txType, backType = types.TxRevokeAsDelegate, types.OutputDelegateVotingPower
	}

	var inputs []tx.Input
	total := decimal.Zero
	for _, v := range votes {
		if !sameAddress(v.Wallet, target) || !v.VoteCount.IsPositive() {
			continue
		}
		op, err := types.NewOutpoint(v.TxHash, v.Index)
		if err != nil {
			return nil, fmt.Errorf("vote %s:%d: %w", v.TxHash, v.Index, err)
		}
		if pending.has(op) {
			continue
		}
		inputs = append(inputs, tx.NewInput(op, acct.pub, v.VoteCount))
		total = total.Add(v.VoteCount)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no votes for %s", ErrNotEligible, target)
	}

	back, err := acct.output(total, backType, s.format)
	if err != nil {
		return nil, err
	}
	b := tx.NewBuilder().AddInputs(inputs...).AddOutput(back).SetType(txType)
	return s.seal(b, acct, "revoke")
}

// Balance returns the reconciled balance of address.
func (s *Service) Balance(ctx context.Context, address string) (Balance, error) {
	info, err := s.ledger.AddressInfo(ctx, address, rpcclient.AddressInfoFlags{})
	if err != nil {
		return Balance{}, err
	}
	return Reconcile(info, address), nil
}
