// upow-wallet manages keys and builds, signs and submits transactions
// for the uPow ledger.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/upow-network/upow-wallet/config"
	klog "github.com/upow-network/upow-wallet/internal/log"
)

var version = "0.1.0"

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "upow-wallet"
	app.Usage = "uPow wallet: keys, balances and transactions"
	app.Version = version
	app.Flags = config.Flags()
	app.Metadata = map[string]interface{}{}
	app.Before = setup
	app.Commands = []*cli.Command{
		&createwallet,
		&importkey,
		&listkeys,
		&balance,
		&send,
		&stake,
		&unstake,
		&registerInode,
		&deregisterInode,
		&registerValidator,
		&vote,
		&revoke,
		&decode,
	}
	return app
}

// setup loads the configuration and initializes logging before any
// command runs.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c)
	if err != nil {
		return err
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	c.App.Metadata[configKey] = cfg
	klog.CLI.Debug().Str("node", cfg.Node.URL).Str("datadir", cfg.DataDir).Msg("config loaded")
	return nil
}

func getConfig(c *cli.Context) *config.Config {
	return c.App.Metadata[configKey].(*config.Config)
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
	reason  string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s: %s", e.command, e.reason)
}

func usageError(c *cli.Context, reason string) error {
	return &invalidUsageError{ctx: c, command: c.Command.Name, reason: reason}
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n\n", e.reason)
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
