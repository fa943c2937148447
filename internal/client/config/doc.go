// Package config loads runtime configuration for the GeoKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the origin HTTP API
//	-d string   path of the local SQLite cache database
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "http://127.0.0.1:8080",
//	  "database_dsn": "catalog.db",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s"
//	}
//
// Primary API
//
//   - type Config                     — endpoint, database path and timeouts
//   - func LoadConfig() *Config       — defaults, then JSON, env and flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
