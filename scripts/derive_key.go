// derive_key.go prints the addresses and public point for a key file holding
// either a hex private key or a 24-word recovery phrase.
// Usage: go run scripts/derive_key.go <keyfile>
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/upow-network/upow-wallet/internal/wallet"
	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/types"
)

func fail(err error) {
	fmt.Fprintln(os.Stderr, "derive_key:", err)
	os.Exit(1)
}

func loadKey(path string) (*crypto.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	secret := strings.TrimSpace(string(data))
	if strings.Contains(secret, " ") {
		return wallet.KeyFromMnemonic(secret)
	}
	b, err := hex.DecodeString(strings.TrimPrefix(secret, "0x"))
	if err != nil {
		return nil, fmt.Errorf("key file is neither hex nor a mnemonic: %w", err)
	}
	return crypto.PrivateKeyFromBytes(b)
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_key <keyfile>")
		os.Exit(2)
	}
	key, err := loadKey(os.Args[1])
	if err != nil {
		fail(err)
	}
	defer key.Zero()

	pub := key.PublicKey()
	fmt.Printf("x=%x\ny=%x\n", pub.X, pub.Y)
	for _, f := range []types.AddressFormat{types.AddressCompressed, types.AddressFull} {
		addr, err := key.Address(f)
		if err != nil {
			fail(err)
		}
		fmt.Printf("%s=%s\n", f, addr)
	}
}
