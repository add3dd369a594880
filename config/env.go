package config

import (
	"fmt"
	"time"

	"github.com/ardanlabs/conf"
)

// EnvPrefix is the namespace of configuration environment variables.
const EnvPrefix = "UPOW"

// envConfig mirrors Config for the environment layer. Fields carry no
// defaults so unset variables keep the values already loaded.
type envConfig struct {
	DataDir string
	Node    struct {
		URL             string
		Timeout         time.Duration
		RateLimit       int
		BreakerRequests uint32
		BreakerRatio    float64
		CacheTTL        time.Duration
	}
	Wallet struct {
		Format string
	}
	Log struct {
		Level string
		File  string
		JSON  bool
	}
}

// ApplyEnv overrides cfg with UPOW_* environment variables, for example
// UPOW_NODE_URL, UPOW_NODE_RATE_LIMIT or UPOW_LOG_JSON.
func ApplyEnv(cfg *Config) error {
	var env envConfig
	env.DataDir = cfg.DataDir
	env.Node.URL = cfg.Node.URL
	env.Node.Timeout = cfg.Node.Timeout
	env.Node.RateLimit = cfg.Node.RateLimit
	env.Node.BreakerRequests = cfg.Node.BreakerRequests
	env.Node.BreakerRatio = cfg.Node.BreakerRatio
	env.Node.CacheTTL = cfg.Node.CacheTTL
	env.Wallet.Format = cfg.Wallet.Format
	env.Log.Level = cfg.Log.Level
	env.Log.File = cfg.Log.File
	env.Log.JSON = cfg.Log.JSON

	if err := conf.Parse(nil, EnvPrefix, &env); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	cfg.DataDir = env.DataDir
	cfg.Node = NodeConfig{
		URL:             env.Node.URL,
		Timeout:         env.Node.Timeout,
		RateLimit:       env.Node.RateLimit,
		BreakerRequests: env.Node.BreakerRequests,
		BreakerRatio:    env.Node.BreakerRatio,
		CacheTTL:        env.Node.CacheTTL,
	}
	cfg.Wallet.Format = env.Wallet.Format
	cfg.Log = LogConfig{Level: env.Log.Level, File: env.Log.File, JSON: env.Log.JSON}
	return nil
}
