package tx

import (
	"context"
	"encoding/hex"
	"testing"
)

// FuzzDecode checks that arbitrary bytes never make the decoder panic.
func FuzzDecode(f *testing.F) {
	seed, _ := hex.DecodeString("0301" +
		"aa000000000000000000000000000000000000000000000000000000000000aa" + "0000" +
		"01" + "036b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296" + "0405f5e100" + "00" +
		"00")
	f.Add(seed)
	f.Add([]byte{})
	f.Add([]byte{0x01})
	f.Add([]byte{0x03, 0x00, 0x00, 0x01, 0x00, 0x05})

	f.Fuzz(func(t *testing.T, data []byte) {
		tx, err := Decode(context.Background(), data, DecodeOptions{SkipSignatureCheck: true})
		if err != nil {
			return
		}
		// A successful decode must re-encode without panicking.
		tx.Hash()
		tx.PartialHex()
		tx.Validate()
		tx.Verify(context.Background(), nil)
	})
}
