package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/upow-network/upow-wallet/internal/wallet"
	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/tx"
	"github.com/upow-network/upow-wallet/pkg/types"
)

var send = cli.Command{
	Name:  "send",
	Usage: "send coins to one or more addresses",
	Description: "With comma-separated --to and --amount lists of equal length the\n" +
		"payments are combined into one transaction with a single change output.",
	Action: sendAction,
	Flags: []cli.Flag{
		walletFlag,
		&cli.StringFlag{
			Name:     "to",
			Usage:    "recipient address, or a comma-separated list",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Aliases:  []string{"a"},
			Usage:    "amount to send (e.g. 1.5), or a comma-separated list",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "message",
			Aliases: []string{"m"},
			Usage:   "message attached to the transaction, as hex or plain text",
		},
		&cli.StringFlag{
			Name:  "send-back",
			Usage: "address receiving the change (default: sender)",
		},
		dryRunFlag,
	},
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// messageBytes decodes m as hex, falling back to its UTF-8 bytes.
func messageBytes(m string) []byte {
	if m == "" {
		return nil
	}
	if b, err := hex.DecodeString(m); err == nil {
		return b
	}
	return []byte(m)
}

func parseAmounts(list []string) ([]decimal.Decimal, error) {
	amounts := make([]decimal.Decimal, len(list))
	for i, s := range list {
		d, err := types.ParseAmount(s)
		if err != nil {
			return nil, err
		}
		amounts[i] = d
	}
	return amounts, nil
}

func sendAction(c *cli.Context) error {
	recipients := splitList(c.String("to"))
	amounts, err := parseAmounts(splitList(c.String("amount")))
	if err != nil {
		return err
	}
	if len(recipients) == 0 || len(amounts) == 0 {
		return usageError(c, "--to and --amount are required")
	}
	message := messageBytes(c.String("message"))

	if len(recipients) > 1 || len(amounts) > 1 {
		if len(recipients) != len(amounts) {
			return fmt.Errorf("%w: %d addresses, %d amounts", wallet.ErrRecipientMismatch, len(recipients), len(amounts))
		}
		return runBuilder(c, func(svc *wallet.Service, key *crypto.PrivateKey) (*tx.Transaction, error) {
			return svc.SendMany(c.Context, key, recipients, amounts, message)
		})
	}
	return runBuilder(c, func(svc *wallet.Service, key *crypto.PrivateKey) (*tx.Transaction, error) {
		return svc.Send(c.Context, key, recipients[0], amounts[0], message, c.String("send-back"))
	})
}
