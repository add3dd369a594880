package tx

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/types"
)

// encode serializes the transaction.
//
//	version(1) | n_in(1) | inputs | n_out(1) | outputs
//	| specifier(1) [| msg_len(1 or 2) | msg] | signatures(64 each)
//
// The partial form used for signing stops after the outputs unless the
// transaction is version 3 with a message, in which case it stops after
// the message.
func (tx *Transaction) encode(full bool) []byte {
	buf := make([]byte, 0, 3+len(tx.inputs)*InputSize+len(tx.outputs)*(types.FullPointSize+10))
	buf = append(buf, tx.version, byte(len(tx.inputs)))
	for _, in := range tx.inputs {
		buf = append(buf, in.Bytes()...)
	}
	buf = append(buf, byte(len(tx.outputs)))
	for _, out := range tx.outputs {
		buf = append(buf, out.Bytes()...)
	}

	if !full && (tx.version <= 2 || tx.message == nil) {
		return buf
	}

	if tx.message != nil {
		buf = append(buf, hasMessage)
		if tx.version <= 2 {
			buf = append(buf, byte(len(tx.message)))
		} else {
			buf = binary.BigEndian.AppendUint16(buf, uint16(len(tx.message)))
		}
		buf = append(buf, tx.message...)
		if !full {
			return buf
		}
	} else {
		buf = append(buf, noMessage)
	}

	for _, sig := range tx.Signatures() {
		buf = append(buf, sig.Bytes()...)
	}
	return buf
}

// DecodeOptions controls how signatures are reattached and checked.
type DecodeOptions struct {
	// Resolver looks up input owners when signatures must be grouped by
	// signer or verified.
	Resolver Resolver
	// SkipSignatureCheck disables verification and signer grouping.
	SkipSignatureCheck bool
}

// DecodeHex parses a hex-encoded transaction.
func DecodeHex(ctx context.Context, s string, opts DecodeOptions) (*Transaction, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: transaction is not hex: %v", types.ErrInvalidEncoding, err)
	}
	return Decode(ctx, b, opts)
}

// Decode parses a wire-encoded transaction, partial or full. Signatures
// are read until the buffer is exhausted and reattached to inputs:
// a single signature covers every input, one per input is positional,
// otherwise inputs are grouped by owner in order of first appearance.
// Unless SkipSignatureCheck is set, a signed transaction is verified.
func Decode(ctx context.Context, b []byte, opts DecodeOptions) (*Transaction, error) {
	r := reader{buf: b}

	version := r.byte()
	if r.err == nil && (version == 0 || version > MaxVersion) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	inputs := make([]Input, r.byte())
	for i := range inputs {
		var h types.Hash
		copy(h[:], r.next(types.HashSize))
		index := r.byte()
		typ := types.InputType(r.byte())
		if r.err == nil && !typ.Valid() {
			return nil, fmt.Errorf("input %d: %w: input type %d", i, types.ErrInvalidEncoding, uint8(typ))
		}
		inputs[i] = Input{PrevOut: types.Outpoint{TxHash: h, Index: index}, Type: typ}
	}

	width := addressWidth(version)
	outputs := make([]Output, r.byte())
	for i := range outputs {
		addr := r.next(width)
		n := int(r.byte())
		if r.err == nil && n > 8 {
			return nil, fmt.Errorf("output %d: %w: %d-byte amount", i, types.ErrInvalidEncoding, n)
		}
		var units uint64
		for _, c := range r.next(n) {
			units = units<<8 | uint64(c)
		}
		typ := types.OutputType(r.byte())
		if r.err != nil {
			return nil, r.err
		}
		out, err := newOutput(addr, units, typ)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		outputs[i] = out
	}
	if r.err != nil {
		return nil, r.err
	}

	var message []byte
	var sigs []crypto.Signature
	if r.remaining() > 0 {
		switch spec := r.byte(); spec {
		case noMessage:
		case hasMessage:
			var n int
			if version <= 2 {
				n = int(r.byte())
			} else {
				n = int(binary.BigEndian.Uint16(r.next(2)))
			}
			message = append([]byte{}, r.next(n)...)
		default:
			return nil, fmt.Errorf("%w: message specifier 0x%02x", types.ErrInvalidEncoding, spec)
		}
		if r.err != nil {
			return nil, r.err
		}
		if r.remaining()%crypto.SignatureSize != 0 {
			return nil, fmt.Errorf("%w: %d trailing bytes", types.ErrInvalidEncoding, r.remaining())
		}
		for r.remaining() > 0 {
			sig, err := crypto.SignatureFromBytes(r.next(crypto.SignatureSize))
			if err != nil {
				return nil, err
			}
			sigs = append(sigs, sig)
		}
	}

	resolver := newMemoResolver(opts.Resolver)
	if err := attachSignatures(ctx, inputs, sigs, resolver, opts.SkipSignatureCheck); err != nil {
		return nil, err
	}

	tx, err := newTransaction(inputs, outputs, message, version)
	if err != nil {
		return nil, err
	}
	if len(sigs) > 0 && !opts.SkipSignatureCheck {
		if err := tx.Verify(ctx, resolver); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

func attachSignatures(ctx context.Context, inputs []Input, sigs []crypto.Signature, resolver Resolver, skipCheck bool) error {
	switch {
	case len(sigs) == 0:
		return nil
	case len(sigs) == 1:
		for i := range inputs {
			inputs[i].Signature = sigs[0]
		}
		return nil
	case len(sigs) == len(inputs):
		for i := range inputs {
			inputs[i].Signature = sigs[i]
		}
		return nil
	case skipCheck:
		return nil
	}

	// Group inputs by owner in order of first appearance.
	var order []string
	groups := make(map[string][]int)
	for i, in := range inputs {
		pub, err := in.PublicKey(ctx, resolver)
		if err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		key, err := types.PointToString(pub, types.AddressCompressed)
		if err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}
	if len(order) != len(sigs) {
		return fmt.Errorf("%w: %d signatures for %d signers", types.ErrInvalidEncoding, len(sigs), len(order))
	}
	for g, key := range order {
		for _, i := range groups[key] {
			inputs[i].Signature = sigs[g]
		}
	}
	return nil
}

// reader is a bounds-checked cursor. After the first short read every
// call returns zero values and err is set.
type reader struct {
	buf []byte
	pos int
	err error
}

func (r *reader) next(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	if n < 0 || r.pos+n > len(r.buf) {
		r.err = fmt.Errorf("%w: unexpected end of data at offset %d", types.ErrInvalidEncoding, r.pos)
		return make([]byte, n)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) byte() byte {
	return r.next(1)[0]
}

func (r *reader) remaining() int {
	return len(r.buf) - r.pos
}
