// Package wallet builds and signs uPow transactions, reconciles balances
// and keeps private keys encrypted at rest.
package wallet

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"github.com/upow-network/upow-wallet/pkg/crypto"
)

// MnemonicWords is the length of a key backup phrase. The 256-bit key is
// used directly as BIP-39 entropy.
const MnemonicWords = 24

// KeyToMnemonic encodes a private key as a 24-word phrase.
func KeyToMnemonic(key *crypto.PrivateKey) (string, error) {
	m, err := bip39.NewMnemonic(key.Serialize())
	if err != nil {
		return "", fmt.Errorf("encode mnemonic: %w", err)
	}
	return m, nil
}

// KeyFromMnemonic decodes a 24-word phrase back into the private key.
func KeyFromMnemonic(mnemonic string) (*crypto.PrivateKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if n := len(strings.Fields(mnemonic)); n != MnemonicWords {
		return nil, fmt.Errorf("mnemonic has %d words, want %d", n, MnemonicWords)
	}
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("decode mnemonic: %w", err)
	}
	return crypto.PrivateKeyFromBytes(entropy)
}

// ValidateMnemonic checks if a mnemonic is valid per BIP-39
// (correct word count, valid words, valid checksum).
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}
