package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/upow-network/upow-wallet/internal/wallet"
	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/tx"
)

var registerInode = cli.Command{
	Name:   "register_inode",
	Usage:  "lock the inode registration deposit",
	Action: builderAction((*wallet.Service).RegisterInode),
	Flags:  []cli.Flag{walletFlag, dryRunFlag},
}

var deregisterInode = cli.Command{
	Name:   "de_register_inode",
	Usage:  "release the inode registration deposit",
	Action: builderAction((*wallet.Service).DeregisterInode),
	Flags:  []cli.Flag{walletFlag, dryRunFlag},
}

var registerValidator = cli.Command{
	Name:   "register_validator",
	Usage:  "pay the validator registration fee",
	Action: builderAction((*wallet.Service).RegisterValidator),
	Flags:  []cli.Flag{walletFlag, dryRunFlag},
}

// builderAction adapts a builder that needs only the signing key.
func builderAction(fn func(*wallet.Service, context.Context, *crypto.PrivateKey) (*tx.Transaction, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		return runBuilder(c, func(svc *wallet.Service, key *crypto.PrivateKey) (*tx.Transaction, error) {
			return fn(svc, c.Context, key)
		})
	}
}
