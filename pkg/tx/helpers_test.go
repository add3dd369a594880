package tx

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/types"
)

func testKey(t *testing.T, scalar int64) *crypto.PrivateKey {
	t.Helper()
	key, err := crypto.PrivateKeyFromInt(big.NewInt(scalar))
	if err != nil {
		t.Fatalf("PrivateKeyFromInt(%d): %v", scalar, err)
	}
	return key
}

func testAddress(t *testing.T, key *crypto.PrivateKey, format types.AddressFormat) string {
	t.Helper()
	addr, err := key.Address(format)
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	return addr
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testOutput(t *testing.T, addr string, amount string, typ types.OutputType) Output {
	t.Helper()
	out, err := NewOutput(addr, amt(amount), typ)
	if err != nil {
		t.Fatalf("NewOutput: %v", err)
	}
	return out
}

func testHash(b byte) types.Hash {
	var h types.Hash
	h[0] = b
	h[31] = b
	return h
}

// fakeResolver serves PrevTxInfo from memory and counts lookups.
type fakeResolver struct {
	txs   map[types.Hash]*PrevTxInfo
	calls int
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{txs: make(map[types.Hash]*PrevTxInfo)}
}

// add registers a prior transaction whose output index pays owner.
func (f *fakeResolver) add(hash types.Hash, index uint8, owner string, amount string) {
	info, ok := f.txs[hash]
	if !ok {
		info = &PrevTxInfo{InputAddresses: []string{owner}}
		f.txs[hash] = info
	}
	for len(info.OutputAddresses) <= int(index) {
		info.OutputAddresses = append(info.OutputAddresses, "")
		info.OutputAmounts = append(info.OutputAmounts, decimal.Zero)
	}
	info.OutputAddresses[index] = owner
	info.OutputAmounts[index] = amt(amount)
}

func (f *fakeResolver) TransactionInfo(_ context.Context, hash types.Hash) (*PrevTxInfo, error) {
	f.calls++
	info, ok := f.txs[hash]
	if !ok {
		return nil, errors.New("transaction not found")
	}
	return info, nil
}

// withVersion forces a wire version instead of deriving it from the outputs.
func (b *Builder) withVersion(v uint8) *Builder {
	b.version = v
	return b
}
