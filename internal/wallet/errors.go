package wallet

import (
	"errors"

	"github.com/upow-network/upow-wallet/pkg/types"
)

// Transaction builder errors.
var (
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrNotEligible           = errors.New("not eligible")
	ErrAlreadyRegistered     = errors.New("already registered")
	ErrAlreadyStaked         = errors.New("already staked")
	ErrNotStaked             = errors.New("not staked")
	ErrDelegatePowerExceeded = errors.New("delegate voting power exceeded")
	ErrInvalidVoteRange      = errors.New("voting range must be greater than 0 and at most 10")
	ErrRecipientMismatch     = errors.New("addresses and amounts differ in length")
	ErrInvalidAmount         = types.ErrInvalidAmount
)

// Keystore errors.
var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrKeyExists     = errors.New("key already exists")
	ErrWrongPassword = errors.New("wrong password")
)
