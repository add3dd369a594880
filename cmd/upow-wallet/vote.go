package main

import (
	"github.com/urfave/cli/v2"

	"github.com/upow-network/upow-wallet/internal/wallet"
	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/tx"
	"github.com/upow-network/upow-wallet/pkg/types"
)

var vote = cli.Command{
	Name:  "vote",
	Usage: "vote for a validator (as delegate) or an inode (as validator)",
	Description: "Validators vote for inodes, every other staker votes for\n" +
		"validators. The range is the share of voting power to give, at most 10.",
	Action: voteAction,
	Flags: []cli.Flag{
		walletFlag,
		&cli.StringFlag{
			Name:     "range",
			Aliases:  []string{"r"},
			Usage:    "voting power to give (1 to 10)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "to",
			Usage:    "address receiving the votes",
			Required: true,
		},
		dryRunFlag,
	},
}

var revoke = cli.Command{
	Name:   "revoke",
	Usage:  "take back the votes given to an address",
	Action: revokeAction,
	Flags: []cli.Flag{
		walletFlag,
		&cli.StringFlag{
			Name:     "from",
			Usage:    "address the votes were given to",
			Required: true,
		},
		dryRunFlag,
	},
}

func voteAction(c *cli.Context) error {
	votingRange, err := types.ParseAmount(c.String("range"))
	if err != nil {
		return err
	}
	target := c.String("to")
	return runBuilder(c, func(svc *wallet.Service, key *crypto.PrivateKey) (*tx.Transaction, error) {
		return svc.Vote(c.Context, key, votingRange, target)
	})
}

func revokeAction(c *cli.Context) error {
	target := c.String("from")
	return runBuilder(c, func(svc *wallet.Service, key *crypto.PrivateKey) (*tx.Transaction, error) {
		return svc.Revoke(c.Context, key, target)
	})
}
