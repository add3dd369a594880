package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/upow-network/upow-wallet/pkg/tx"
)

var decode = cli.Command{
	Name:      "decode",
	Usage:     "print a hex-encoded transaction as JSON",
	ArgsUsage: "<tx hex>",
	Action:    decodeAction,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-verify",
			Usage: "do not look up inputs on the node to check signatures",
		},
	},
}

func decodeAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return usageError(c, "expected one transaction hex argument")
	}
	opts := tx.DecodeOptions{SkipSignatureCheck: c.Bool("no-verify")}
	if !opts.SkipSignatureCheck {
		opts.Resolver = newClient(getConfig(c))
	}
	t, err := tx.DecodeHex(c.Context, c.Args().First(), opts)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}
