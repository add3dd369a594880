// Package config handles wallet configuration.
//
// Settings are layered: built-in defaults, then the conf file, then
// UPOW_* environment variables, then command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds the wallet's runtime configuration.
type Config struct {
	DataDir string // datadir

	Node   NodeConfig
	Wallet WalletConfig
	Log    LogConfig
}

// NodeConfig describes how to reach the uPow node.
type NodeConfig struct {
	URL             string        // node.url
	Timeout         time.Duration // node.timeout
	RateLimit       int           // node.ratelimit, requests per second (0 = unlimited)
	BreakerRequests uint32        // node.breaker.requests
	BreakerRatio    float64       // node.breaker.ratio
	CacheTTL        time.Duration // node.cachettl
}

// WalletConfig holds wallet settings.
type WalletConfig struct {
	Format string // wallet.format: compressed or full
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string // log.level
	File  string // log.file
	JSON  bool   // log.json
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.upow-wallet
//	macOS:   ~/Library/Application Support/uPow Wallet
//	Windows: %APPDATA%\uPow Wallet
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".upow-wallet"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "uPow Wallet")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "uPow Wallet")
		}
		return filepath.Join(home, "AppData", "Roaming", "uPow Wallet")
	default:
		return filepath.Join(home, ".upow-wallet")
	}
}

// KeystoreDir returns the directory holding the encrypted key database.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.DataDir, "keystore")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "upow-wallet.conf")
}
