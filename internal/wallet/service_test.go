package wallet

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upow-network/upow-wallet/internal/rpcclient"
	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/tx"
	"github.com/upow-network/upow-wallet/pkg/types"
)

type fixture struct {
	ledger *fakeLedger
	svc    *Service
	key    *crypto.PrivateKey
	me     string
	other  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ledger := &fakeLedger{}
	key := testKey(t, 0xA11CE)
	return &fixture{
		ledger: ledger,
		svc:    New(ledger, WithLogger(zerolog.Nop())),
		key:    key,
		me:     testAddress(t, key),
		other:  testAddress(t, testKey(t, 0xB0B)),
	}
}

// checkSigned asserts every input is signed by the fixture key and the
// transaction survives a decode.
func (f *fixture) checkSigned(t *testing.T, got *tx.Transaction) {
	t.Helper()
	require.NoError(t, got.Validate())
	require.NoError(t, got.Verify(context.Background(), nil))
	assert.Len(t, got.Signatures(), 1)

	decoded, err := tx.DecodeHex(context.Background(), got.Hex(), tx.DecodeOptions{SkipSignatureCheck: true})
	require.NoError(t, err)
	assert.Equal(t, got.Hash(), decoded.Hash())
}

func outputSummary(t *tx.Transaction) []string {
	var out []string
	for _, o := range t.Outputs() {
		out = append(out, o.Type().String()+" "+o.Amount().String())
	}
	return out
}

func TestSend_SingleCover(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "3"), rec(2, 1, "5"), rec(3, 0, "12")}

	got, err := f.svc.Send(context.Background(), f.key, f.other, amt("10"), nil, "")
	require.NoError(t, err)
	f.checkSigned(t, got)

	assert.Equal(t, []string{f.me}, f.ledger.addresses)
	require.Equal(t, 1, got.NumInputs())
	assert.Equal(t, hashHex(3), got.Input(0).PrevOut.TxHash.String())
	assert.Equal(t, []string{"REGULAR 10", "REGULAR 2"}, outputSummary(got))
	assert.Equal(t, f.other, got.Output(0).Address())
	assert.Equal(t, f.me, got.Output(1).Address())
	assert.Nil(t, got.Message())
}

func TestSend_MessageAndSendBack(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "3"), rec(2, 0, "4")}
	back := testAddress(t, testKey(t, 0xCAFE))

	got, err := f.svc.Send(context.Background(), f.key, f.other, amt("5.5"), []byte("hello"), back)
	require.NoError(t, err)
	f.checkSigned(t, got)

	assert.Equal(t, 2, got.NumInputs())
	assert.Equal(t, []byte("hello"), got.Message())
	assert.Equal(t, []string{"REGULAR 5.5", "REGULAR 1.5"}, outputSummary(got))
	assert.Equal(t, back, got.Output(1).Address())
}

func TestSend_PendingSpentExcluded(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "3"), rec(2, 0, "5"), rec(3, 0, "12")}
	f.ledger.info.PendingSpentOutputs = []rpcclient.OutputRecord{rec(3, 0, "12")}

	_, err := f.svc.Send(context.Background(), f.key, f.other, amt("10"), nil, "")
	assert.True(t, errors.Is(err, ErrInsufficientFunds), "err = %v", err)

	got, err := f.svc.Send(context.Background(), f.key, f.other, amt("7"), nil, "")
	require.NoError(t, err)
	for _, in := range got.Inputs() {
		assert.NotEqual(t, hashHex(3), in.PrevOut.TxHash.String())
	}
}

func TestSend_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Send(context.Background(), f.key, f.other, amt("1"), nil, "")
	assert.True(t, errors.Is(err, ErrInsufficientFunds), "no outputs: %v", err)

	f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "10")}
	_, err = f.svc.Send(context.Background(), f.key, f.other, amt("1.123456789"), nil, "")
	assert.True(t, errors.Is(err, types.ErrPrecision), "precision: %v", err)

	_, err = f.svc.Send(context.Background(), f.key, f.other, amt("0"), nil, "")
	assert.True(t, errors.Is(err, ErrInvalidAmount), "zero: %v", err)

	_, err = f.svc.Send(context.Background(), f.key, "zz", amt("1"), nil, "")
	assert.True(t, errors.Is(err, types.ErrInvalidEncoding), "bad address: %v", err)

	f.ledger.err = rpcclient.ErrQueryFailed
	_, err = f.svc.Send(context.Background(), f.key, f.other, amt("1"), nil, "")
	assert.True(t, errors.Is(err, rpcclient.ErrQueryFailed), "node down: %v", err)
}

func TestSendMany(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "3"), rec(2, 0, "4"), rec(3, 0, "5")}
	third := testAddress(t, testKey(t, 0xD00D))

	got, err := f.svc.SendMany(context.Background(), f.key,
		[]string{f.other, third}, []decimal.Decimal{amt("6"), amt("4")}, []byte("batch"))
	require.NoError(t, err)
	f.checkSigned(t, got)

	assert.Equal(t, 3, got.NumInputs())
	assert.Equal(t, []string{"REGULAR 6", "REGULAR 4", "REGULAR 2"}, outputSummary(got))
	assert.Equal(t, f.other, got.Output(0).Address())
	assert.Equal(t, third, got.Output(1).Address())
	assert.Equal(t, f.me, got.Output(2).Address())
	assert.Equal(t, []byte("batch"), got.Message())
}

func TestSendMany_LargestFirst(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "2"), rec(2, 0, "20")}

	got, err := f.svc.SendMany(context.Background(), f.key, []string{f.other}, []decimal.Decimal{amt("1")}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, got.NumInputs())
	requireAmount(t, "20", got.Input(0).Amount)
	assert.Equal(t, []string{"REGULAR 1", "REGULAR 19"}, outputSummary(got))
}

func TestSendMany_Errors(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "2")}

	_, err := f.svc.SendMany(context.Background(), f.key, []string{f.other}, []decimal.Decimal{amt("1"), amt("1")}, nil)
	assert.True(t, errors.Is(err, ErrRecipientMismatch), "mismatch: %v", err)

	_, err = f.svc.SendMany(context.Background(), f.key, nil, nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidAmount), "empty: %v", err)

	_, err = f.svc.SendMany(context.Background(), f.key, []string{f.other, f.other}, []decimal.Decimal{amt("1"), amt("1.5")}, nil)
	assert.True(t, errors.Is(err, ErrInsufficientFunds), "short: %v", err)
}

func TestSendMany_RejectsDuplicateInputs(t *testing.T) {
	f := newFixture(t)
	// A node listing the same outpoint twice must not produce a double spend.
	f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "5"), rec(1, 0, "5")}

	_, err := f.svc.SendMany(context.Background(), f.key, []string{f.other}, []decimal.Decimal{amt("8")}, nil)
	assert.ErrorIs(t, err, tx.ErrDuplicateInput)
}

func TestStake(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "50")}

	got, err := f.svc.Stake(context.Background(), f.key, amt("20"))
	require.NoError(t, err)
	f.checkSigned(t, got)

	flags := f.ledger.flags[0]
	assert.True(t, flags.StakeOutputs)
	assert.True(t, flags.DelegateSpentVotes)
	assert.True(t, flags.DelegateUnspentVotes)
	assert.Equal(t, []string{"STAKE 20", "REGULAR 30", "DELEGATE_VOTING_POWER 10"}, outputSummary(got))
	for _, out := range got.Outputs() {
		assert.Equal(t, f.me, out.Address())
	}
}

func TestStake_DelegatePower(t *testing.T) {
	tests := []struct {
		name    string
		unspent string
		spent   string
		wantErr error
	}{
		{"at cap", "6", "4", nil},
		{"over cap", "6", "5", ErrDelegatePowerExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "50")}
			f.ledger.info.DelegateUnspentVotes = []rpcclient.OutputRecord{rec(7, 0, tt.unspent)}
			f.ledger.info.DelegateSpentVotes = []rpcclient.OutputRecord{rec(8, 0, tt.spent)}

			got, err := f.svc.Stake(context.Background(), f.key, amt("50"))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"STAKE 50"}, outputSummary(got))
		})
	}
}

func TestStake_Errors(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "5")}
	f.ledger.info.StakeOutputs = []rpcclient.OutputRecord{rec(2, 0, "10")}

	_, err := f.svc.Stake(context.Background(), f.key, amt("1"))
	assert.True(t, errors.Is(err, ErrAlreadyStaked), "staked: %v", err)

	f.ledger.info.StakeOutputs = []rpcclient.OutputRecord{rec(2, 0, "0")}
	_, err = f.svc.Stake(context.Background(), f.key, amt("6"))
	assert.True(t, errors.Is(err, ErrInsufficientFunds), "funds: %v", err)
}

func TestUnstake(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.StakeOutputs = []rpcclient.OutputRecord{rec(2, 1, "25.5")}

	got, err := f.svc.Unstake(context.Background(), f.key)
	require.NoError(t, err)
	f.checkSigned(t, got)

	require.Equal(t, 1, got.NumInputs())
	assert.Equal(t, uint8(1), got.Input(0).PrevOut.Index)
	assert.Equal(t, []string{"UN_STAKE 25.5"}, outputSummary(got))
	assert.Nil(t, got.Message())
}

func TestUnstake_Errors(t *testing.T) {
	t.Run("not staked", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Unstake(context.Background(), f.key)
		assert.True(t, errors.Is(err, ErrNotStaked), "err = %v", err)
	})

	t.Run("stake pending spend", func(t *testing.T) {
		f := newFixture(t)
		f.ledger.info.StakeOutputs = []rpcclient.OutputRecord{rec(2, 0, "10")}
		f.ledger.info.PendingSpentOutputs = []rpcclient.OutputRecord{rec(2, 0, "10")}
		_, err := f.svc.Unstake(context.Background(), f.key)
		assert.True(t, errors.Is(err, ErrNotStaked), "err = %v", err)
	})

	t.Run("votes outstanding", func(t *testing.T) {
		f := newFixture(t)
		f.ledger.info.StakeOutputs = []rpcclient.OutputRecord{rec(2, 0, "10")}
		f.ledger.info.DelegateSpentVotes = []rpcclient.OutputRecord{rec(3, 0, "4")}
		_, err := f.svc.Unstake(context.Background(), f.key)
		assert.True(t, errors.Is(err, ErrNotEligible), "err = %v", err)
	})

	t.Run("vote pending", func(t *testing.T) {
		f := newFixture(t)
		f.ledger.info.StakeOutputs = []rpcclient.OutputRecord{rec(2, 0, "10")}
		f.ledger.info.PendingTransactions = []rpcclient.PendingTransaction{{
			TransactionType: types.TxVoteAsDelegate,
			Inputs:          []rpcclient.PendingInput{{Address: f.me, TxHash: hashHex(9), Amount: amt("10")}},
		}}
		_, err := f.svc.Unstake(context.Background(), f.key)
		assert.True(t, errors.Is(err, ErrNotEligible), "err = %v", err)
	})
}

func TestRegisterInode(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "600"), rec(2, 0, "700")}
	f.ledger.info.StakeOutputs = []rpcclient.OutputRecord{rec(3, 0, "10")}
	f.ledger.dobby = []rpcclient.DobbyEntry{{Wallet: f.other}}

	got, err := f.svc.RegisterInode(context.Background(), f.key)
	require.NoError(t, err)
	f.checkSigned(t, got)

	assert.Equal(t, 2, got.NumInputs())
	assert.Equal(t, []string{"INODE_REGISTRATION 1000", "REGULAR 300"}, outputSummary(got))
	assert.True(t, f.ledger.flags[0].AddressState)
}

func TestRegisterInode_Errors(t *testing.T) {
	full := make([]rpcclient.DobbyEntry, MaxInodes)
	tests := []struct {
		name    string
		setup   func(f *fixture)
		wantErr error
	}{
		{"no funds", func(f *fixture) { f.ledger.info.SpendableOutputs = nil }, ErrInsufficientFunds},
		{"short funds", func(f *fixture) { f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "999.99999999")} }, ErrInsufficientFunds},
		{"not staked", func(f *fixture) { f.ledger.info.StakeOutputs = nil }, ErrNotStaked},
		{"already inode", func(f *fixture) { f.ledger.info.IsInode = true }, ErrAlreadyRegistered},
		{"validator", func(f *fixture) { f.ledger.info.IsValidator = true }, ErrNotEligible},
		{"inodes full", func(f *fixture) { f.ledger.dobby = full }, ErrNotEligible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "1000")}
			f.ledger.info.StakeOutputs = []rpcclient.OutputRecord{rec(3, 0, "10")}
			tt.setup(f)
			_, err := f.svc.RegisterInode(context.Background(), f.key)
			assert.True(t, errors.Is(err, tt.wantErr), "err = %v", err)
		})
	}
}

func TestDeregisterInode(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.InodeRegistrationOutputs = []rpcclient.OutputRecord{rec(4, 0, "1000")}
	f.ledger.dobby = []rpcclient.DobbyEntry{{Wallet: f.other}}

	got, err := f.svc.DeregisterInode(context.Background(), f.key)
	require.NoError(t, err)
	f.checkSigned(t, got)

	assert.True(t, f.ledger.flags[0].InodeRegistrationOutputs)
	assert.Equal(t, []string{"REGULAR 1000"}, outputSummary(got))
	assert.Equal(t, []byte("4"), got.Message())
	assert.Equal(t, types.TxInodeDeRegistration, got.Type())
}

func TestDeregisterInode_Errors(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.DeregisterInode(context.Background(), f.key)
	assert.True(t, errors.Is(err, ErrNotEligible), "not registered: %v", err)

	f.ledger.info.InodeRegistrationOutputs = []rpcclient.OutputRecord{rec(4, 0, "1000")}
	f.ledger.dobby = []rpcclient.DobbyEntry{{Wallet: strings.ToUpper(f.me)}}
	_, err = f.svc.DeregisterInode(context.Background(), f.key)
	assert.True(t, errors.Is(err, ErrNotEligible), "active: %v", err)
}

func TestRegisterValidator(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "150")}
	f.ledger.info.StakeOutputs = []rpcclient.OutputRecord{rec(3, 0, "10")}

	got, err := f.svc.RegisterValidator(context.Background(), f.key)
	require.NoError(t, err)
	f.checkSigned(t, got)

	assert.Equal(t, []string{"VALIDATOR_REGISTRATION 100", "VALIDATOR_VOTING_POWER 10", "REGULAR 50"}, outputSummary(got))
	assert.Equal(t, types.TxValidatorRegistration, got.Type())
}

func TestRegisterValidator_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *fixture)
		wantErr error
	}{
		{"short funds", func(f *fixture) { f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "99")} }, ErrInsufficientFunds},
		{"not staked", func(f *fixture) { f.ledger.info.StakeOutputs = nil }, ErrNotStaked},
		{"already validator", func(f *fixture) { f.ledger.info.IsValidator = true }, ErrAlreadyRegistered},
		{"inode", func(f *fixture) { f.ledger.info.IsInode = true }, ErrNotEligible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "100")}
			f.ledger.info.StakeOutputs = []rpcclient.OutputRecord{rec(3, 0, "10")}
			tt.setup(f)
			_, err := f.svc.RegisterValidator(context.Background(), f.key)
			assert.True(t, errors.Is(err, tt.wantErr), "err = %v", err)
		})
	}
}

func TestVote_AsValidator(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.IsValidator = true
	f.ledger.info.ValidatorUnspentVotes = []rpcclient.OutputRecord{rec(5, 1, "10")}

	got, err := f.svc.Vote(context.Background(), f.key, amt("3.5"), f.other)
	require.NoError(t, err)
	f.checkSigned(t, got)

	assert.Equal(t, types.TxVoteAsValidator, got.Type())
	assert.Equal(t, []string{"VOTE_AS_VALIDATOR 3.5", "VALIDATOR_VOTING_POWER 6.5"}, outputSummary(got))
	assert.Equal(t, f.other, got.Output(0).Address())
	assert.Equal(t, f.me, got.Output(1).Address())
}

func TestVote_AsDelegate(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.StakeOutputs = []rpcclient.OutputRecord{rec(3, 0, "10")}
	f.ledger.info.DelegateUnspentVotes = []rpcclient.OutputRecord{rec(5, 0, "4"), rec(6, 0, "6")}

	got, err := f.svc.Vote(context.Background(), f.key, amt("10"), f.other)
	require.NoError(t, err)
	f.checkSigned(t, got)

	assert.Equal(t, types.TxVoteAsDelegate, got.Type())
	assert.Equal(t, 2, got.NumInputs())
	assert.Equal(t, []string{"VOTE_AS_DELEGATE 10"}, outputSummary(got))
}

func TestVote_Errors(t *testing.T) {
	f := newFixture(t)
	for _, r := range []string{"0", "-1", "10.00000001"} {
		_, err := f.svc.Vote(context.Background(), f.key, amt(r), f.other)
		assert.True(t, errors.Is(err, ErrInvalidVoteRange), "range %s: %v", r, err)
	}
	assert.Empty(t, f.ledger.addresses, "range is checked before querying")

	_, err := f.svc.Vote(context.Background(), f.key, amt("1"), f.other)
	assert.True(t, errors.Is(err, ErrNotEligible), "neither: %v", err)

	f.ledger.info.IsInode = true
	_, err = f.svc.Vote(context.Background(), f.key, amt("1"), f.other)
	assert.True(t, errors.Is(err, ErrNotEligible), "inode: %v", err)

	f.ledger.info.IsInode = false
	f.ledger.info.StakeOutputs = []rpcclient.OutputRecord{rec(3, 0, "10")}
	_, err = f.svc.Vote(context.Background(), f.key, amt("1"), f.other)
	assert.True(t, errors.Is(err, ErrInsufficientFunds), "no power: %v", err)

	f.ledger.info.DelegateUnspentVotes = []rpcclient.OutputRecord{rec(5, 0, "2")}
	_, err = f.svc.Vote(context.Background(), f.key, amt("3"), f.other)
	assert.True(t, errors.Is(err, ErrInsufficientFunds), "short power: %v", err)
}

func TestRevoke_AsValidator(t *testing.T) {
	f := newFixture(t)
	f.ledger.info.IsValidator = true
	f.ledger.info.PendingSpentOutputs = []rpcclient.OutputRecord{{TxHash: hashHex(13), Index: 0}}
	f.ledger.validators = []rpcclient.ValidatorBallot{
		{Validator: f.me, Votes: []rpcclient.VoteRecord{
			{Wallet: f.other, TxHash: hashHex(11), Index: 0, VoteCount: amt("2")},
			{Wallet: f.other, TxHash: hashHex(12), Index: 1, VoteCount: amt("1.5")},
			{Wallet: f.other, TxHash: hashHex(13), Index: 0, VoteCount: amt("4")},
			{Wallet: f.me, TxHash: hashHex(14), Index: 0, VoteCount: amt("1")},
		}},
		{Validator: f.other, Votes: []rpcclient.VoteRecord{
			{Wallet: f.other, TxHash: hashHex(15), Index: 0, VoteCount: amt("7")},
		}},
	}

	got, err := f.svc.Revoke(context.Background(), f.key, f.other)
	require.NoError(t, err)
	f.checkSigned(t, got)

	assert.Equal(t, f.other, f.ledger.ballotArg)
	assert.Equal(t, 2, got.NumInputs())
	assert.Equal(t, types.TxRevokeAsValidator, got.Type())
	assert.Equal(t, []string{"VALIDATOR_VOTING_POWER 3.5"}, outputSummary(got))
	assert.Equal(t, f.me, got.Output(0).Address())
}

func TestRevoke_AsDelegate(t *testing.T) {
	f := newFixture(t)
	f.ledger.delegates = []rpcclient.DelegateBallot{
		{Delegate: f.me, Votes: []rpcclient.VoteRecord{
			{Wallet: f.other, TxHash: hashHex(11), Index: 2, VoteCount: amt("5")},
		}},
	}

	got, err := f.svc.Revoke(context.Background(), f.key, f.other)
	require.NoError(t, err)
	f.checkSigned(t, got)

	assert.Equal(t, types.TxRevokeAsDelegate, got.Type())
	assert.Equal(t, []string{"DELEGATE_VOTING_POWER 5"}, outputSummary(got))
	requireAmount(t, "5", got.Input(0).Amount)
}

func TestRevoke_NoVotes(t *testing.T) {
	f := newFixture(t)
	f.ledger.delegates = []rpcclient.DelegateBallot{
		{Delegate: f.other, Votes: []rpcclient.VoteRecord{
			{Wallet: f.other, TxHash: hashHex(11), Index: 0, VoteCount: amt("5")},
		}},
	}
	_, err := f.svc.Revoke(context.Background(), f.key, f.other)
	assert.True(t, errors.Is(err, ErrNotEligible), "err = %v", err)
}

func TestService_FullAddressFormat(t *testing.T) {
	ledger := &fakeLedger{}
	ledger.info.SpendableOutputs = []rpcclient.OutputRecord{rec(1, 0, "5")}
	key := testKey(t, 0xA11CE)
	svc := New(ledger, WithAddressFormat(types.AddressFull), WithLogger(zerolog.Nop()))
	full, err := key.Address(types.AddressFull)
	require.NoError(t, err)
	other, err := testKey(t, 0xB0B).Address(types.AddressFull)
	require.NoError(t, err)

	got, err := svc.Send(context.Background(), key, other, amt("1"), nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{full}, ledger.addresses)
	assert.Equal(t, uint8(1), got.Version())
	assert.Equal(t, full, got.Output(1).Address())
}
