package tx

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/upow-network/upow-wallet/pkg/types"
)

func TestNewOutput_Precision(t *testing.T) {
	addr := testAddress(t, testKey(t, 7), types.AddressCompressed)

	if _, err := NewOutput(addr, amt("1.123456789"), types.OutputRegular); !errors.Is(err, types.ErrPrecision) {
		t.Errorf("9 decimals: err = %v, want ErrPrecision", err)
	}
	out, err := NewOutput(addr, amt("1.12345678"), types.OutputRegular)
	if err != nil {
		t.Fatalf("8 decimals: %v", err)
	}
	if out.Units() != 112345678 {
		t.Errorf("Units() = %d, want 112345678", out.Units())
	}
	if _, err := NewOutput(addr, amt("-1"), types.OutputRegular); !errors.Is(err, types.ErrInvalidAmount) {
		t.Errorf("negative: err = %v, want ErrInvalidAmount", err)
	}
}

func TestNewOutput_BadAddress(t *testing.T) {
	if _, err := NewOutput("abcd", amt("1"), types.OutputRegular); !errors.Is(err, types.ErrInvalidEncoding) {
		t.Errorf("err = %v, want ErrInvalidEncoding", err)
	}
	addr := testAddress(t, testKey(t, 7), types.AddressCompressed)
	if _, err := NewOutput(addr, amt("1"), types.OutputType(4)); !errors.Is(err, types.ErrInvalidEncoding) {
		t.Errorf("unassigned type: err = %v, want ErrInvalidEncoding", err)
	}
}

func TestOutput_Bytes(t *testing.T) {
	addr := testAddress(t, testKey(t, 7), types.AddressCompressed)

	tests := []struct {
		amount  string
		typ     types.OutputType
		wantEnd string
	}{
		{"1", types.OutputRegular, "0405f5e10000"},
		{"0.00000001", types.OutputStake, "010101"},
		{"0.00000255", types.OutputRegular, "01ff00"},
		{"0.00000256", types.OutputRegular, "02010000"},
		{"0", types.OutputDelegateVotingPower, "0009"},
	}
	for _, tt := range tests {
		out := testOutput(t, addr, tt.amount, tt.typ)
		got := hex.EncodeToString(out.Bytes())
		want := addr + tt.wantEnd
		if got != want {
			t.Errorf("Bytes(%s) = %s, want %s", tt.amount, got, want)
		}
	}
}

func TestOutput_Verify(t *testing.T) {
	addr := testAddress(t, testKey(t, 7), types.AddressFull)
	if err := testOutput(t, addr, "0.1", types.OutputRegular).Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
	if err := testOutput(t, addr, "0", types.OutputRegular).Verify(); !errors.Is(err, ErrZeroOutput) {
		t.Errorf("zero output Verify() = %v, want ErrZeroOutput", err)
	}
}

func TestAmountLen(t *testing.T) {
	tests := []struct {
		v    uint64
		want int
	}{
		{0, 0}, {1, 1}, {255, 1}, {256, 2}, {1 << 32, 5}, {^uint64(0), 8},
	}
	for _, tt := range tests {
		if got := amountLen(tt.v); got != tt.want {
			t.Errorf("amountLen(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}
