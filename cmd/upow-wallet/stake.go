package main

import (
	"github.com/urfave/cli/v2"

	"github.com/upow-network/upow-wallet/internal/wallet"
	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/tx"
	"github.com/upow-network/upow-wallet/pkg/types"
)

var stake = cli.Command{
	Name:   "stake",
	Usage:  "lock coins as stake",
	Action: stakeAction,
	Flags: []cli.Flag{
		walletFlag,
		&cli.StringFlag{
			Name:     "amount",
			Aliases:  []string{"a"},
			Usage:    "amount to stake",
			Required: true,
		},
		dryRunFlag,
	},
}

var unstake = cli.Command{
	Name:   "unstake",
	Usage:  "release the current stake",
	Action: builderAction((*wallet.Service).Unstake),
	Flags:  []cli.Flag{walletFlag, dryRunFlag},
}

func stakeAction(c *cli.Context) error {
	amount, err := types.ParseAmount(c.String("amount"))
	if err != nil {
		return err
	}
	return runBuilder(c, func(svc *wallet.Service, key *crypto.PrivateKey) (*tx.Transaction, error) {
		return svc.Stake(c.Context, key, amount)
	})
}
