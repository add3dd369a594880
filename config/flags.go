package config

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Global flag names.
const (
	FlagDataDir         = "datadir"
	FlagConfig          = "config"
	FlagNode            = "node"
	FlagTimeout         = "timeout"
	FlagRateLimit       = "ratelimit"
	FlagBreakerRequests = "breaker-requests"
	FlagBreakerRatio    = "breaker-ratio"
	FlagCacheTTL        = "cache-ttl"
	FlagFormat          = "format"
	FlagLogLevel        = "log-level"
	FlagLogFile         = "log-file"
	FlagLogJSON         = "log-json"
)

// Flags returns the global command-line flags. Values given here win over
// the environment and the config file.
func Flags() []cli.Flag {
	return []cli.Flag{
		// Core
		&cli.StringFlag{Name: FlagDataDir, Usage: "Data directory (default: ~/.upow-wallet)"},
		&cli.StringFlag{Name: FlagConfig, Aliases: []string{"c"}, Usage: "Config file path (default: <datadir>/upow-wallet.conf)"},

		// Node
		&cli.StringFlag{Name: FlagNode, Usage: "uPow node URL"},
		&cli.DurationFlag{Name: FlagTimeout, Usage: "Node request timeout"},
		&cli.IntFlag{Name: FlagRateLimit, Usage: "Maximum node requests per second (0 = unlimited)"},
		&cli.UintFlag{Name: FlagBreakerRequests, Usage: "Requests observed before the node breaker may open"},
		&cli.Float64Flag{Name: FlagBreakerRatio, Usage: "Failure ratio that opens the node breaker"},
		&cli.DurationFlag{Name: FlagCacheTTL, Usage: "How long validator, delegate and inode lists are cached"},

		// Wallet
		&cli.StringFlag{Name: FlagFormat, Usage: "Address format for new keys and change: compressed or full"},

		// Logging
		&cli.StringFlag{Name: FlagLogLevel, Usage: "Log level: debug, info, warn, error"},
		&cli.StringFlag{Name: FlagLogFile, Usage: "Log file path (default: stderr)"},
		&cli.BoolFlag{Name: FlagLogJSON, Usage: "Output logs as JSON"},
	}
}

// ApplyFlags applies explicitly set command-line flags to a Config struct.
func ApplyFlags(cfg *Config, c *cli.Context) {
	if c.IsSet(FlagDataDir) {
		cfg.DataDir = c.String(FlagDataDir)
	}

	// Node
	if c.IsSet(FlagNode) {
		cfg.Node.URL = c.String(FlagNode)
	}
	if c.IsSet(FlagTimeout) {
		cfg.Node.Timeout = c.Duration(FlagTimeout)
	}
	if c.IsSet(FlagRateLimit) {
		cfg.Node.RateLimit = c.Int(FlagRateLimit)
	}
	if c.IsSet(FlagBreakerRequests) {
		cfg.Node.BreakerRequests = uint32(c.Uint(FlagBreakerRequests))
	}
	if c.IsSet(FlagBreakerRatio) {
		cfg.Node.BreakerRatio = c.Float64(FlagBreakerRatio)
	}
	if c.IsSet(FlagCacheTTL) {
		cfg.Node.CacheTTL = c.Duration(FlagCacheTTL)
	}

	// Wallet
	if c.IsSet(FlagFormat) {
		cfg.Wallet.Format = c.String(FlagFormat)
	}

	// Logging
	if c.IsSet(FlagLogLevel) {
		cfg.Log.Level = c.String(FlagLogLevel)
	}
	if c.IsSet(FlagLogFile) {
		cfg.Log.File = c.String(FlagLogFile)
	}
	if c.IsSet(FlagLogJSON) {
		cfg.Log.JSON = c.Bool(FlagLogJSON)
	}
}

// EnsureDataDirs creates the data directory and a default config file on
// first use. Existing files are left alone.
func EnsureDataDirs(cfg *Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("create datadir: %w", err)
	}
	path := cfg.ConfigFile()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := WriteDefaultConfig(path); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}
	return nil
}

// Load loads configuration with the following precedence:
// 1. Default values
// 2. Config file
// 3. UPOW_* environment variables
// 4. Command-line flags
func Load(c *cli.Context) (*Config, error) {
	cfg := Default()

	// The datadir decides where the config file lives, so resolve it first.
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if c.IsSet(FlagDataDir) {
		cfg.DataDir = c.String(FlagDataDir)
	}

	if err := EnsureDataDirs(cfg); err != nil {
		return nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	configPath := c.String(FlagConfig)
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}
	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	ApplyFlags(cfg, c)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
