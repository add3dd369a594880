package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OutputType tags the purpose of a transaction output.
type OutputType uint8

// Output types. The value 4 is unassigned.
const (
	OutputRegular               OutputType = 0
	OutputStake                 OutputType = 1
	OutputUnStake               OutputType = 2
	OutputInodeRegistration     OutputType = 3
	OutputValidatorRegistration OutputType = 5
	OutputVoteAsValidator       OutputType = 6
	OutputVoteAsDelegate        OutputType = 7
	OutputValidatorVotingPower  OutputType = 8
	OutputDelegateVotingPower   OutputType = 9

	// OutputUnknown is decoded from names this wallet does not know.
	OutputUnknown OutputType = kindUnknown
)

var outputTypeNames = map[OutputType]string{
	OutputRegular:               "REGULAR",
	OutputStake:                 "STAKE",
	OutputUnStake:               "UN_STAKE",
	OutputInodeRegistration:     "INODE_REGISTRATION",
	OutputValidatorRegistration: "VALIDATOR_REGISTRATION",
	OutputVoteAsValidator:       "VOTE_AS_VALIDATOR",
	OutputVoteAsDelegate:        "VOTE_AS_DELEGATE",
	OutputValidatorVotingPower:  "VALIDATOR_VOTING_POWER",
	OutputDelegateVotingPower:   "DELEGATE_VOTING_POWER",
}

// Valid reports whether t is an assigned output type.
func (t OutputType) Valid() bool {
	_, ok := outputTypeNames[t]
	return ok
}

func (t OutputType) String() string {
	if name, ok := outputTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("OutputType(%d)", uint8(t))
}

func outputTypeByName(name string) (uint8, bool) {
	for k, n := range outputTypeNames {
		if n == name {
			return uint8(k), true
		}
	}
	return 0, false
}

// ParseOutputType accepts a type name or its decimal code.
func ParseOutputType(s string) (OutputType, error) {
	v, err := parseKind(s, outputTypeByName)
	if err != nil {
		return 0, fmt.Errorf("output type: %w", err)
	}
	t := OutputType(v)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: output type %d", ErrInvalidEncoding, v)
	}
	return t, nil
}

// MarshalJSON encodes the type as its name, or its code when unassigned.
func (t OutputType) MarshalJSON() ([]byte, error) {
	return marshalKind(t.Valid(), t.String(), uint8(t))
}

// UnmarshalJSON accepts either the name or the numeric code. Codes are
// kept as sent; unknown names decode to OutputUnknown and null is ignored.
func (t *OutputType) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeKind(data, outputTypeByName)
	if ok {
		*t = OutputType(v)
	}
	return err
}

// InputType tags how an input is spent.
type InputType uint8

const (
	InputRegular InputType = 0
	InputFees    InputType = 1
	InputUnknown InputType = kindUnknown
)

func (t InputType) Valid() bool {
	return t == InputRegular || t == InputFees
}

func (t InputType) String() string {
	switch t {
	case InputRegular:
		return "REGULAR"
	case InputFees:
		return "FEES"
	default:
		return fmt.Sprintf("InputType(%d)", uint8(t))
	}
}

func inputTypeByName(name string) (uint8, bool) {
	switch name {
	case "REGULAR":
		return uint8(InputRegular), true
	case "FEES":
		return uint8(InputFees), true
	}
	return 0, false
}

// ParseInputType accepts a type name or its decimal code.
func ParseInputType(s string) (InputType, error) {
	v, err := parseKind(s, inputTypeByName)
	if err != nil {
		return 0, fmt.Errorf("input type: %w", err)
	}
	t := InputType(v)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: input type %d", ErrInvalidEncoding, v)
	}
	return t, nil
}

func (t InputType) MarshalJSON() ([]byte, error) {
	return marshalKind(t.Valid(), t.String(), uint8(t))
}

func (t *InputType) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeKind(data, inputTypeByName)
	if ok {
		*t = InputType(v)
	}
	return err
}

// TransactionType classifies a whole transaction. It travels in the
// transaction message as ASCII decimal digits.
type TransactionType uint8

const (
	TxRegular               TransactionType = 0
	TxStake                 TransactionType = 1
	TxUnStake               TransactionType = 2
	TxInodeRegistration     TransactionType = 3
	TxInodeDeRegistration   TransactionType = 4
	TxValidatorRegistration TransactionType = 5
	TxVoteAsValidator       TransactionType = 6
	TxVoteAsDelegate        TransactionType = 7
	TxRevokeAsValidator     TransactionType = 8
	TxRevokeAsDelegate      TransactionType = 9

	TxUnknown TransactionType = kindUnknown
)

var txTypeNames = [...]string{
	TxRegular:               "REGULAR",
	TxStake:                 "STAKE",
	TxUnStake:               "UN_STAKE",
	TxInodeRegistration:     "INODE_REGISTRATION",
	TxInodeDeRegistration:   "INODE_DE_REGISTRATION",
	TxValidatorRegistration: "VALIDATOR_REGISTRATION",
	TxVoteAsValidator:       "VOTE_AS_VALIDATOR",
	TxVoteAsDelegate:        "VOTE_AS_DELEGATE",
	TxRevokeAsValidator:     "REVOKE_AS_VALIDATOR",
	TxRevokeAsDelegate:      "REVOKE_AS_DELEGATE",
}

func (t TransactionType) Valid() bool {
	return int(t) < len(txTypeNames)
}

func (t TransactionType) String() string {
	if t.Valid() {
		return txTypeNames[t]
	}
	return fmt.Sprintf("TransactionType(%d)", uint8(t))
}

// Message returns the message bytes that mark a transaction as type t.
func (t TransactionType) Message() []byte {
	return []byte(strconv.Itoa(int(t)))
}

// TransactionTypeFromMessage interprets a transaction message as a type.
// Messages that are not a known decimal code classify as TxRegular.
func TransactionTypeFromMessage(msg []byte) TransactionType {
	if len(msg) == 0 {
		return TxRegular
	}
	v, err := strconv.Atoi(string(msg))
	if err != nil || v < 0 || v >= len(txTypeNames) {
		return TxRegular
	}
	return TransactionType(v)
}

func txTypeByName(name string) (uint8, bool) {
	for i, n := range txTypeNames {
		if n == name {
			return uint8(i), true
		}
	}
	return 0, false
}

// ParseTransactionType accepts a type name or its decimal code.
func ParseTransactionType(s string) (TransactionType, error) {
	v, err := parseKind(s, txTypeByName)
	if err != nil {
		return 0, fmt.Errorf("transaction type: %w", err)
	}
	t := TransactionType(v)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: transaction type %d", ErrInvalidEncoding, v)
	}
	return t, nil
}

func (t TransactionType) MarshalJSON() ([]byte, error) {
	return marshalKind(t.Valid(), t.String(), uint8(t))
}

func (t *TransactionType) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeKind(data, txTypeByName)
	if ok {
		*t = TransactionType(v)
	}
	return err
}

const kindUnknown = 0xff

func parseKind(s string, byName func(string) (uint8, bool)) (uint8, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 8); err == nil {
		return uint8(n), nil
	}
	if v, ok := byName(strings.ToUpper(s)); ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: unknown name %q", ErrInvalidEncoding, s)
}

// decodeKind reads a type tag from a node response. ok is false for null.
func decodeKind(data []byte, byName func(string) (uint8, bool)) (uint8, bool, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return 0, false, nil
	}
	s, err := kindText(data)
	if err != nil {
		return 0, false, err
	}
	v, err := parseKind(s, byName)
	if err != nil {
		return kindUnknown, true, nil
	}
	return v, true, nil
}

func marshalKind(valid bool, name string, code uint8) ([]byte, error) {
	if valid {
		return json.Marshal(name)
	}
	return json.Marshal(code)
}

// kindText unwraps a JSON string or number into its text form.
func kindText(data []byte) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("%w: type tag %s", ErrInvalidEncoding, data)
	}
	return n.String(), nil
}
