package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/upow-network/upow-wallet/internal/wallet"
	"github.com/upow-network/upow-wallet/pkg/crypto"
)

const defaultKeyName = "default"

var createwallet = cli.Command{
	Name:   "createwallet",
	Usage:  "generate a new key and store it encrypted",
	Action: createWalletAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "name of the new key",
			Value: defaultKeyName,
		},
	},
}

var importkey = cli.Command{
	Name:      "import",
	Usage:     "store an existing private key (hex) or 24-word mnemonic",
	ArgsUsage: "[hex key | mnemonic words]",
	Action:    importAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "name of the imported key",
			Value: defaultKeyName,
		},
	},
}

var listkeys = cli.Command{
	Name:   "list",
	Usage:  "list stored keys and their addresses",
	Action: listAction,
}

// newPassword prompts twice and checks both entries match.
func newPassword() ([]byte, error) {
	password, err := readPassword("Enter password: ")
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	if !bytes.Equal(password, confirm) {
		return nil, errors.New("passwords do not match")
	}
	return password, nil
}

func createWalletAction(c *cli.Context) error {
	cfg := getConfig(c)
	ks, err := openKeystore(cfg)
	if err != nil {
		return err
	}
	defer ks.Close()

	name := c.String("name")
	if _, err := ks.Get(name); err == nil {
		return fmt.Errorf("%w: %s", wallet.ErrKeyExists, name)
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}
	defer key.Zero()
	mnemonic, err := wallet.KeyToMnemonic(key)
	if err != nil {
		return err
	}

	password, err := newPassword()
	if err != nil {
		return err
	}
	entry, err := ks.Import(name, key, password, cfg.AddressFormat())
	if err != nil {
		return err
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Key created: %s\n", entry.Name)
	fmt.Fprintf(out, "Address: %s\n", entry.Address)
	fmt.Fprintln(out, "Mnemonic (write this down!):")
	fmt.Fprintf(out, "  %s\n", mnemonic)
	return nil
}

// parseSecret accepts a 32-byte hex private key or a mnemonic.
func parseSecret(s string) (*crypto.PrivateKey, error) {
	s = strings.TrimSpace(s)
	if len(strings.Fields(s)) == 1 {
		b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, fmt.Errorf("private key is not hex: %w", err)
		}
		return crypto.PrivateKeyFromBytes(b)
	}
	return wallet.KeyFromMnemonic(s)
}

func importAction(c *cli.Context) error {
	secret := strings.Join(c.Args().Slice(), " ")
	if secret == "" {
		b, err := readPassword("Private key or mnemonic: ")
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}
		secret = string(b)
	}
	key, err := parseSecret(secret)
	if err != nil {
		return err
	}
	defer key.Zero()

	cfg := getConfig(c)
	ks, err := openKeystore(cfg)
	if err != nil {
		return err
	}
	defer ks.Close()

	password, err := newPassword()
	if err != nil {
		return err
	}
	entry, err := ks.Import(c.String("name"), key, password, cfg.AddressFormat())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Key imported: %s\nAddress: %s\n", entry.Name, entry.Address)
	return nil
}

func listAction(c *cli.Context) error {
	ks, err := openKeystore(getConfig(c))
	if err != nil {
		return err
	}
	defer ks.Close()

	entries, err := ks.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.App.Writer, "No keys stored.")
		return nil
	}
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFORMAT\tCREATED\tADDRESS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Format, e.CreatedAt.Format("2006-01-02"), e.Address)
	}
	return w.Flush()
}
