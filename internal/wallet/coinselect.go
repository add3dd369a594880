package wallet

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/upow-network/upow-wallet/pkg/tx"
)

// CoinSelection holds the result of coin selection.
type CoinSelection struct {
	Inputs []tx.Input      // Selected inputs to spend.
	Total  decimal.Decimal // Sum of selected input amounts.
	Change decimal.Decimal // Change = Total - target.
}

// SelectCoins chooses inputs to fund target. The smallest single input
// that covers the target wins; if none does, inputs are accumulated
// largest-first until the target is met.
func SelectCoins(inputs []tx.Input, target decimal.Decimal) (*CoinSelection, error) {
	if !target.IsPositive() {
		return nil, fmt.Errorf("%w: target must be positive", ErrInvalidAmount)
	}
	candidates := sortedByAmount(inputs)

	for _, in := range candidates {
		if in.Amount.GreaterThanOrEqual(target) {
			return &CoinSelection{
				Inputs: []tx.Input{in},
				Total:  in.Amount,
				Change: in.Amount.Sub(target),
			}, nil
		}
	}
	return accumulate(candidates, target)
}

// SelectLargestFirst accumulates inputs from the largest down until the
// target is met, without trying a single covering input first.
func SelectLargestFirst(inputs []tx.Input, target decimal.Decimal) (*CoinSelection, error) {
	if !target.IsPositive() {
		return nil, fmt.Errorf("%w: target must be positive", ErrInvalidAmount)
	}
	return accumulate(sortedByAmount(inputs), target)
}

// accumulate walks ascending candidates from the end.
func accumulate(candidates []tx.Input, target decimal.Decimal) (*CoinSelection, error) {
	var selected []tx.Input
	total := decimal.Zero
	for i := len(candidates) - 1; i >= 0; i-- {
		selected = append(selected, candidates[i])
		total = total.Add(candidates[i].Amount)
		if total.GreaterThanOrEqual(target) {
			return &CoinSelection{
				Inputs: selected,
				Total:  total,
				Change: total.Sub(target),
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientFunds, total, target)
}

// sortedByAmount returns the positive-amount inputs sorted ascending.
func sortedByAmount(inputs []tx.Input) []tx.Input {
	candidates := make([]tx.Input, 0, len(inputs))
	for _, in := range inputs {
		if in.Amount.IsPositive() {
			candidates = append(candidates, in)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Amount.LessThan(candidates[j].Amount)
	})
	return candidates
}

func totalAmount(inputs []tx.Input) decimal.Decimal {
	total := decimal.Zero
	for _, in := range inputs {
		total = total.Add(in.Amount)
	}
	return total
}
