package wallet

import (
	"errors"
	"testing"

	"github.com/upow-network/upow-wallet/pkg/tx"
	"github.com/upow-network/upow-wallet/pkg/types"
)

func makeInputs(amounts ...string) []tx.Input {
	inputs := make([]tx.Input, len(amounts))
	for i, a := range amounts {
		inputs[i] = tx.Input{
			PrevOut: types.Outpoint{TxHash: types.Hash{byte(i + 1)}},
			Amount:  amt(a),
		}
	}
	return inputs
}

func amounts(inputs []tx.Input) []string {
	out := make([]string, len(inputs))
	for i, in := range inputs {
		out[i] = in.Amount.String()
	}
	return out
}

func TestSelectCoins(t *testing.T) {
	tests := []struct {
		name       string
		inputs     []string
		target     string
		wantInputs []string
		wantChange string
	}{
		{"single cover", []string{"3", "5", "12"}, "10", []string{"12"}, "2"},
		{"smallest single cover", []string{"20", "11", "12"}, "10", []string{"11"}, "1"},
		{"exact match", []string{"1", "2", "3"}, "2", []string{"2"}, "0"},
		{"largest first", []string{"3", "4", "5"}, "10", []string{"5", "4", "3"}, "2"},
		{"stops when covered", []string{"1", "4", "5", "3"}, "8", []string{"5", "4"}, "1"},
		{"fractional", []string{"0.5", "0.25", "0.00000001"}, "0.75", []string{"0.5", "0.25"}, "0"},
		{"zero amounts ignored", []string{"0", "6", "0"}, "6", []string{"6"}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := SelectCoins(makeInputs(tt.inputs...), amt(tt.target))
			if err != nil {
				t.Fatalf("SelectCoins: %v", err)
			}
			got := amounts(sel.Inputs)
			if len(got) != len(tt.wantInputs) {
				t.Fatalf("inputs = %v, want %v", got, tt.wantInputs)
			}
			for i := range got {
				if !amt(got[i]).Equal(amt(tt.wantInputs[i])) {
					t.Fatalf("inputs = %v, want %v", got, tt.wantInputs)
				}
			}
			if !sel.Change.Equal(amt(tt.wantChange)) {
				t.Errorf("change = %s, want %s", sel.Change, tt.wantChange)
			}
			if !sel.Total.Sub(sel.Change).Equal(amt(tt.target)) {
				t.Errorf("total %s - change %s != target %s", sel.Total, sel.Change, tt.target)
			}
		})
	}
}

func TestSelectCoins_Insufficient(t *testing.T) {
	_, err := SelectCoins(makeInputs("1", "2"), amt("4"))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	_, err = SelectCoins(nil, amt("1"))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("empty: err = %v, want ErrInsufficientFunds", err)
	}
}

func TestSelectCoins_NonPositiveTarget(t *testing.T) {
	for _, target := range []string{"0", "-1"} {
		if _, err := SelectCoins(makeInputs("1"), amt(target)); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("target %s: err = %v, want ErrInvalidAmount", target, err)
		}
	}
}

func TestSelectLargestFirst_SkipsSingleCover(t *testing.T) {
	sel, err := SelectLargestFirst(makeInputs("3", "12", "5"), amt("4"))
	if err != nil {
		t.Fatalf("SelectLargestFirst: %v", err)
	}
	if len(sel.Inputs) != 1 || !sel.Inputs[0].Amount.Equal(amt("12")) {
		t.Fatalf("inputs = %v, want [12]", amounts(sel.Inputs))
	}
	if !sel.Change.Equal(amt("8")) {
		t.Errorf("change = %s, want 8", sel.Change)
	}
}

func TestSelectCoins_DoesNotReorderCaller(t *testing.T) {
	inputs := makeInputs("5", "1", "3")
	if _, err := SelectCoins(inputs, amt("9")); err == nil {
		t.Fatal("expected insufficient funds")
	}
	got := amounts(inputs)
	if got[0] != "5" || got[1] != "1" || got[2] != "3" {
		t.Errorf("caller slice reordered: %v", got)
	}
}
