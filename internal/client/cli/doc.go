// Package cli provides the interactive GeoKeeper command-line client.
//
// It wires configuration, the local SQLite cache, the origin API client and
// an interactive REPL. Browse commands (list, show, sync, refresh, reset,
// status) work against the local cache and only touch the origin when the
// cached data is stale or a refresh is forced. Admin commands (login, push,
// setflag) manage the authoritative data set on the origin.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
