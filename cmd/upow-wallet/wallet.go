package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/upow-network/upow-wallet/config"
	klog "github.com/upow-network/upow-wallet/internal/log"
	"github.com/upow-network/upow-wallet/internal/rpcclient"
	"github.com/upow-network/upow-wallet/internal/wallet"
	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/tx"
)

// keyParams are the Argon2id parameters for newly stored keys.
var keyParams = wallet.DefaultParams()

// readPassword prompts on stderr and reads without echo.
var readPassword = func(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

var (
	walletFlag = &cli.StringFlag{
		Name:    "wallet",
		Aliases: []string{"w"},
		Usage:   "name of the stored key to use (default: the only stored key)",
	}
	dryRunFlag = &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "print the signed transaction instead of pushing it",
	}
)

func newClient(cfg *config.Config) *rpcclient.Client {
	return rpcclient.New(cfg.Node.URL, rpcclient.Options{
		Timeout:         cfg.Node.Timeout,
		RateLimit:       cfg.Node.RateLimit,
		BreakerRequests: cfg.Node.BreakerRequests,
		BreakerRatio:    cfg.Node.BreakerRatio,
		CacheTTL:        cfg.Node.CacheTTL,
	})
}

func openKeystore(cfg *config.Config) (*wallet.Keystore, error) {
	ks, err := wallet.OpenKeystore(cfg.KeystoreDir(), keyParams)
	if err != nil {
		return nil, fmt.Errorf("open keystore: %w", err)
	}
	return ks, nil
}

// selectKey resolves the --wallet flag to a stored key name.
func selectKey(c *cli.Context, ks *wallet.Keystore) (string, error) {
	if name := c.String(walletFlag.Name); name != "" {
		return name, nil
	}
	entries, err := ks.List()
	if err != nil {
		return "", err
	}
	switch len(entries) {
	case 0:
		return "", errors.New("no keys stored, run createwallet or import first")
	case 1:
		return entries[0].Name, nil
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return "", usageError(c, "several keys stored, choose one with --wallet: "+strings.Join(names, ", "))
}

// unlockKey asks for the password of the selected key and decrypts it.
func unlockKey(c *cli.Context, ks *wallet.Keystore) (*crypto.PrivateKey, error) {
	name, err := selectKey(c, ks)
	if err != nil {
		return nil, err
	}
	if _, err := ks.Get(name); err != nil {
		return nil, err
	}
	password, err := readPassword(fmt.Sprintf("Password for %s: ", name))
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return ks.Load(name, password)
}

// buildFunc builds a signed transaction with the unlocked key.
type buildFunc func(svc *wallet.Service, key *crypto.PrivateKey) (*tx.Transaction, error)

// runBuilder unlocks a key, builds a transaction and submits it.
func runBuilder(c *cli.Context, build buildFunc) error {
	cfg := getConfig(c)
	ks, err := openKeystore(cfg)
	if err != nil {
		return err
	}
	defer ks.Close()

	key, err := unlockKey(c, ks)
	if err != nil {
		return err
	}
	defer key.Zero()

	client := newClient(cfg)
	svc := wallet.New(client, wallet.WithAddressFormat(cfg.AddressFormat()))
	t, err := build(svc, key)
	if err != nil {
		return err
	}
	return submit(c, client, t)
}

// submit pushes t to the node, or prints it with --dry-run.
func submit(c *cli.Context, client *rpcclient.Client, t *tx.Transaction) error {
	out := c.App.Writer
	if c.Bool(dryRunFlag.Name) {
		fmt.Fprintf(out, "Transaction hash: %s\n%s\n", t.Hash(), t.Hex())
		return nil
	}
	if err := client.PushTx(c.Context, t.Hex()); err != nil {
		return fmt.Errorf("transaction has not been pushed: %w", err)
	}
	klog.CLI.Info().Str("hash", t.Hash().String()).Msg("transaction submitted")
	fmt.Fprintf(out, "Transaction pushed. Transaction hash: %s\n", t.Hash())
	return nil
}
