package config

import "time"

// Config holds runtime settings for the storefront CLI.
//
// Fields:
//   - GatewayBaseURL: root of the commerce API, including the /api prefix.
//   - DatabasePath: sqlite file holding the anonymous cart and tokens.
//   - RequestTimeout: upper bound for every gateway request.
type Config struct {
	GatewayBaseURL string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.GatewayBaseURL = "http://localhost:8000/api"
	c.DatabasePath = "storefront.db"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays
// values from JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
