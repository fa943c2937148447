package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config with pointer fields so that variables absent from
// the environment leave the current value untouched.
type envConfig struct {
	EndpointAddr                 *string        `env:"ADDRESS"`
	DatabaseDSN                  *string        `env:"DATABASE_DSN"`
	SecretKey                    *string        `env:"SECRET_KEY"`
	AccessTokenValidityDuration  *time.Duration `env:"ACCESS_TOKEN_VALIDITY_DURATION"`
	RefreshTokenValidityDuration *time.Duration `env:"REFRESH_TOKEN_VALIDITY_DURATION"`
	AdminUserName                *string        `env:"ADMIN_USERNAME"`
	AdminPassword                *string        `env:"ADMIN_PASSWORD"`
	S3RootUser                   *string        `env:"S3_ROOT_USER"`
	S3RootPassword               *string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket                     *string        `env:"S3_BUCKET"`
	S3Region                     *string        `env:"S3_REGION"`
	S3BaseEndpoint               *string        `env:"S3_BASE_ENDPOINT"`
}

// parseEnv overlays configuration values from environment variables onto the
// provided Config. Unset variables keep the existing values.
func parseEnv(config *Config) {
	c := &envConfig{}
	if err := env.Parse(c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != nil {
		config.EndpointAddr = *c.EndpointAddr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = *c.AccessTokenValidityDuration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = *c.RefreshTokenValidityDuration
	}
	if c.AdminUserName != nil {
		config.AdminUserName = *c.AdminUserName
	}
	if c.AdminPassword != nil {
		config.AdminPassword = *c.AdminPassword
	}
	if c.S3RootUser != nil {
		config.S3RootUser = *c.S3RootUser
	}
	if c.S3RootPassword != nil {
		config.S3RootPassword = *c.S3RootPassword
	}
	if c.S3Bucket != nil {
		config.S3Bucket = *c.S3Bucket
	}
	if c.S3Region != nil {
		config.S3Region = *c.S3Region
	}
	if c.S3BaseEndpoint != nil {
		config.S3BaseEndpoint = *c.S3BaseEndpoint
	}
}
