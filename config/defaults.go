package config

import "time"

// DefaultNodeURL is the public uPow node.
const DefaultNodeURL = "https://api.upow.ai"

// Default returns the default wallet configuration.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Node: NodeConfig{
			URL:             DefaultNodeURL,
			Timeout:         10 * time.Second,
			RateLimit:       10,
			BreakerRequests: 20,
			BreakerRatio:    0.6,
			CacheTTL:        10 * time.Second,
		},
		Wallet: WalletConfig{
			Format: "compressed",
		},
		Log: LogConfig{
			Level: "warn",
			JSON:  false,
		},
	}
}
