package config

import "time"

// Config holds runtime settings for the GeoKeeper CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the origin HTTP API.
//   - DatabaseDSN: path of the local SQLite cache database.
//   - RequestTimeout: per-request timeout for origin calls.
//   - OnlineCheckInterval: how often the client probes origin reachability.
//
// Units: durations are time.Duration values (e.g., 3*time.Second).
type Config struct {
	ServerEndpointAddr  string
	DatabaseDSN         string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabaseDSN = "catalog.db"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
