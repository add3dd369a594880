package config

import (
	"fmt"
	"net/url"

	klog "github.com/upow-network/upow-wallet/internal/log"
	"github.com/upow-network/upow-wallet/pkg/types"
)

// Validate checks the configuration for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir must be set")
	}

	u, err := url.Parse(cfg.Node.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("node.url must be an http(s) URL, got %q", cfg.Node.URL)
	}
	if cfg.Node.Timeout <= 0 {
		return fmt.Errorf("node.timeout must be positive")
	}
	if cfg.Node.RateLimit < 0 {
		return fmt.Errorf("node.ratelimit must not be negative")
	}
	if cfg.Node.BreakerRatio < 0 || cfg.Node.BreakerRatio > 1 {
		return fmt.Errorf("node.breaker.ratio must be in range [0, 1]")
	}
	if cfg.Node.CacheTTL < 0 {
		return fmt.Errorf("node.cachettl must not be negative")
	}

	if _, err := types.ParseAddressFormat(cfg.Wallet.Format); err != nil {
		return fmt.Errorf("wallet.format: %w", err)
	}
	if !klog.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", cfg.Log.Level)
	}
	return nil
}

// AddressFormat returns the parsed wallet.format setting.
func (c *Config) AddressFormat() types.AddressFormat {
	f, err := types.ParseAddressFormat(c.Wallet.Format)
	if err != nil {
		return types.AddressCompressed
	}
	return f
}
