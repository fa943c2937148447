package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config with pointer fields so that variables absent from
// the environment leave the current value untouched.
type envConfig struct {
	ServerEndpointAddr  *string        `env:"ADDRESS"`
	DatabaseDSN         *string        `env:"DATABASE_DSN"`
	RequestTimeout      *time.Duration `env:"REQUEST_TIMEOUT"`
	OnlineCheckInterval *time.Duration `env:"ONLINE_CHECK_INTERVAL"`
}

// parseEnv overlays configuration values from environment variables onto the
// provided Config. Unset variables keep the existing values.
func parseEnv(cfg *Config) {
	c := &envConfig{}
	if err := env.Parse(c); err != nil {
		panic(err)
	}

	if c.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *c.ServerEndpointAddr
	}
	if c.DatabaseDSN != nil {
		cfg.DatabaseDSN = *c.DatabaseDSN
	}
	if c.RequestTimeout != nil {
		cfg.RequestTimeout = *c.RequestTimeout
	}
	if c.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = *c.OnlineCheckInterval
	}
}
