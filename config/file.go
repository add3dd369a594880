package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFile reads a "key = value" file. Blank lines and lines starting
// with # are skipped, and values may be wrapped in single or double quotes.
// A missing file yields an empty map.
func LoadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	values := map[string]string{}
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%s:%d: expected key = value", path, n)
		}
		values[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}
	return values, sc.Err()
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	if q := v[0]; (q == '"' || q == '\'') && v[len(v)-1] == q {
		return v[1 : len(v)-1]
	}
	return v
}

type setter func(cfg *Config, value string) error

// fileKeys maps config file keys onto Config fields. Unknown keys are
// ignored so newer files still load.
var fileKeys = map[string]setter{
	"datadir":  func(c *Config, v string) error { c.DataDir = v; return nil },
	"node":     func(c *Config, v string) error { c.Node.URL = v; return nil },
	"node.url": func(c *Config, v string) error { c.Node.URL = v; return nil },
	"node.timeout": func(c *Config, v string) (err error) {
		c.Node.Timeout, err = time.ParseDuration(v)
		return err
	},
	"node.ratelimit": func(c *Config, v string) (err error) {
		c.Node.RateLimit, err = strconv.Atoi(v)
		return err
	},
	"node.breaker.requests": func(c *Config, v string) error {
		n, err := strconv.ParseUint(v, 10, 32)
		c.Node.BreakerRequests = uint32(n)
		return err
	},
	"node.breaker.ratio": func(c *Config, v string) (err error) {
		c.Node.BreakerRatio, err = strconv.ParseFloat(v, 64)
		return err
	},
	"node.cachettl": func(c *Config, v string) (err error) {
		c.Node.CacheTTL, err = time.ParseDuration(v)
		return err
	},
	"wallet.format": func(c *Config, v string) error { c.Wallet.Format = v; return nil },
	"log.level":     func(c *Config, v string) error { c.Log.Level = v; return nil },
	"log.file":      func(c *Config, v string) error { c.Log.File = v; return nil },
	"log.json":      func(c *Config, v string) error { c.Log.JSON = parseBool(v); return nil },
}

// ApplyFileConfig copies values read by LoadFile into cfg.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		set, ok := fileKeys[key]
		if !ok {
			continue
		}
		// Parse into a scratch copy so a bad value leaves cfg untouched.
		next := *cfg
		if err := set(&next, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
		*cfg = next
	}
	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// WriteDefaultConfig writes a commented default configuration file.
func WriteDefaultConfig(path string) error {
	content := `# uPow Wallet Configuration
#
# Every setting can also be given as an environment variable
# (UPOW_NODE_URL, UPOW_LOG_LEVEL, ...) or a command-line flag.

# Data directory (default: ~/.upow-wallet)
# datadir = ~/.upow-wallet

# ============================================================================
# Node
# ============================================================================

node.url = ` + DefaultNodeURL + `
node.timeout = 10s

# Requests per second sent to the node (0 = unlimited)
node.ratelimit = 10

# Stop calling the node after this many requests with this failure ratio
node.breaker.requests = 20
node.breaker.ratio = 0.6

# How long validator, delegate and inode lists are cached
node.cachettl = 10s

# ============================================================================
# Wallet
# ============================================================================

# Address form for new keys and change outputs: compressed or full
wallet.format = compressed

# ============================================================================
# Logging
# ============================================================================

log.level = warn
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0600)
}
