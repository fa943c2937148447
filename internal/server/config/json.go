package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/flagx"
	"github.com/dmitrijs2005/geokeeper/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling. Interval fields use
// timex.Duration so a file may say "15m" as well as integer nanoseconds.
// It exists only as an intermediate: parseJson unmarshals into it and then
// copies the values over to the runtime Config, which keeps time.Duration.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	AdminUserName                string         `json:"admin_username"`
	AdminPassword                string         `json:"admin_password"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
}

// parseJson loads Config values from the JSON file named by the -c/-config
// flag. Without the flag it is a no-op.
//
// A JSON file is expected to be complete: every Config field is copied from
// the DTO, so fields the file omits reset to their zero values. An unreadable
// file or invalid JSON panics, same as a malformed flag.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	jc := &JsonConfig{}
	if err := json.Unmarshal(raw, jc); err != nil {
		panic(err)
	}

	config.EndpointAddr = jc.EndpointAddr
	config.DatabaseDSN = jc.DatabaseDSN
	config.SecretKey = jc.SecretKey
	config.AccessTokenValidityDuration = time.Duration(jc.AccessTokenValidityDuration.Duration)
	config.RefreshTokenValidityDuration = time.Duration(jc.RefreshTokenValidityDuration.Duration)
	config.AdminUserName = jc.AdminUserName
	config.AdminPassword = jc.AdminPassword
	config.S3RootUser = jc.S3RootUser
	config.S3RootPassword = jc.S3RootPassword
	config.S3Bucket = jc.S3Bucket
	config.S3Region = jc.S3Region
	config.S3BaseEndpoint = jc.S3BaseEndpoint
}
