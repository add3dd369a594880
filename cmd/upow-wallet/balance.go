package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/upow-network/upow-wallet/internal/wallet"
)

// maxBalanceQueries bounds concurrent address lookups.
const maxBalanceQueries = 4

var balance = cli.Command{
	Name:      "balance",
	Usage:     "show balance and stake of stored keys or given addresses",
	ArgsUsage: "[address...]",
	Action:    balanceAction,
}

func balanceAction(c *cli.Context) error {
	cfg := getConfig(c)

	addresses := c.Args().Slice()
	if len(addresses) == 0 {
		ks, err := openKeystore(cfg)
		if err != nil {
			return err
		}
		entries, err := ks.List()
		ks.Close()
		if err != nil {
			return err
		}
		for _, e := range entries {
			addresses = append(addresses, e.Address)
		}
	}
	if len(addresses) == 0 {
		fmt.Fprintln(c.App.Writer, "No keys stored.")
		return nil
	}

	svc := wallet.New(newClient(cfg), wallet.WithAddressFormat(cfg.AddressFormat()))
	results := make([]wallet.Balance, len(addresses))

	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(maxBalanceQueries)
	for i, addr := range addresses {
		i, addr := i, addr
		g.Go(func() error {
			b, err := svc.Balance(ctx, addr)
			if err != nil {
				return fmt.Errorf("balance of %s: %w", addr, err)
			}
			results[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := c.App.Writer
	total, totalPending := decimal.Zero, decimal.Zero
	for i, addr := range addresses {
		b := results[i]
		total = total.Add(b.Balance)
		totalPending = totalPending.Add(b.Pending)
		fmt.Fprintf(out, "Address: %s\n", addr)
		fmt.Fprintf(out, "Balance: %s%s\n", b.Balance, pendingSuffix(b.Pending))
		fmt.Fprintf(out, "Stake: %s%s\n\n", b.Stake, pendingSuffix(b.PendingStake))
	}
	fmt.Fprintf(out, "Total Balance: %s%s\n", total, pendingSuffix(totalPending))
	return nil
}

func pendingSuffix(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf(" (%s pending)", d)
}
