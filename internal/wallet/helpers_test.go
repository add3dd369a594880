package wallet

import (
	"context"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/upow-network/upow-wallet/internal/rpcclient"
	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/types"
)

func testKey(t *testing.T, scalar int64) *crypto.PrivateKey {
	t.Helper()
	key, err := crypto.PrivateKeyFromInt(big.NewInt(scalar))
	require.NoError(t, err)
	return key
}

func testAddress(t *testing.T, key *crypto.PrivateKey) string {
	t.Helper()
	addr, err := key.Address(types.AddressCompressed)
	require.NoError(t, err)
	return addr
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func hashHex(b byte) string {
	var h types.Hash
	h[0] = b
	h[31] = b
	return hex.EncodeToString(h[:])
}

// rec builds a node output record on a distinct prior transaction.
func rec(b byte, index uint8, amount string) rpcclient.OutputRecord {
	return rpcclient.OutputRecord{TxHash: hashHex(b), Index: index, Amount: amt(amount)}
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, amt(want).Equal(got), "amount = %s, want %s", got, want)
}

// fakeLedger serves canned node state.
type fakeLedger struct {
	info       rpcclient.AddressInfo
	validators []rpcclient.ValidatorBallot
	delegates  []rpcclient.DelegateBallot
	dobby      []rpcclient.DobbyEntry
	err        error

	addresses []string
	flags     []rpcclient.AddressInfoFlags
	ballotArg string
}

func (f *fakeLedger) AddressInfo(_ context.Context, address string, flags rpcclient.AddressInfoFlags) (*rpcclient.AddressInfo, error) {
	f.addresses = append(f.addresses, address)
	f.flags = append(f.flags, flags)
	if f.err != nil {
		return nil, f.err
	}
	info := f.info
	return &info, nil
}

func (f *fakeLedger) ValidatorsInfo(_ context.Context, inode string) ([]rpcclient.ValidatorBallot, error) {
	f.ballotArg = inode
	return f.validators, f.err
}

func (f *fakeLedger) DelegatesInfo(_ context.Context, validator string) ([]rpcclient.DelegateBallot, error) {
	f.ballotArg = validator
	return f.delegates, f.err
}

func (f *fakeLedger) DobbyInfo(context.Context) ([]rpcclient.DobbyEntry, error) {
	return f.dobby, f.err
}
