package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/flagx"
	"github.com/dmitrijs2005/geokeeper/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling. Interval fields use
// timex.Duration so a file may say "3s" as well as integer nanoseconds.
// parseJson unmarshals into it and copies the values over to the runtime
// Config, which keeps time.Duration.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	DatabaseDSN         string         `json:"database_dsn"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
}

// parseJson overlays Config with values from the JSON file named by the
// -c/-config flag. Without the flag it is a no-op. An unreadable file or
// invalid JSON panics.
//
// Intended usage is defaults -> parseJson -> parseEnv -> parseFlags, where
// later stages override earlier ones.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(raw, &jc); err != nil {
		panic(err)
	}

	cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	cfg.DatabaseDSN = jc.DatabaseDSN
	cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
}
