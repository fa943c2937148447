package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/flagx"
)

// serverFlags is the set of short flags the server recognizes. parseFlags
// filters os.Args down to these before parsing, so flags meant for other
// components (such as -c/-config handled by the JSON loader) pass through
// without tripping the FlagSet.
var serverFlags = []string{"-a", "-d", "-s", "-t", "-r", "-m", "-w", "-u", "-p", "-b", "-g", "-e"}

// parseFlags overrides Config fields from command-line flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-m string   seed admin username
//	-w string   seed admin password
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Token validity flags take integer minutes and are converted to
// time.Duration after parsing. A malformed flag value panics: the server
// cannot start with a half-read configuration.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	// flag package has no duration-in-minutes type, so read ints and convert below
	accessMin := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshMin := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.AdminUserName, "m", config.AdminUserName, "seed admin username")
	fs.StringVar(&config.AdminPassword, "w", config.AdminPassword, "seed admin password")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessMin) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshMin) * time.Minute
}
