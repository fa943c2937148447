package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/flagx"
)

// clientFlags is the set of short flags the client recognizes. parseFlags
// filters os.Args down to these, so the -c/-config flags of the JSON loader
// pass through without tripping the FlagSet.
var clientFlags = []string{"-a", "-d", "-t", "-i"}

// parseFlags overrides Config fields from command-line flags:
//
//	-a string   base URL of the origin HTTP API
//	-d string   path of the local SQLite cache database
//	-t int      request timeout, seconds
//	-i int      online check interval, seconds
//
// Interval flags take integer seconds and are converted to time.Duration
// after parsing. A malformed flag value panics.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], clientFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the origin server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path of the local cache database")

	// flag package has no duration-in-seconds type, so read ints and convert below
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	checkSec := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*checkSec) * time.Second
}
