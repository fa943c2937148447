// Package client contains client-side building blocks for GeoKeeper.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the GeoKeeper origin: FetchAll, Ping, Login/Logout, PushDataset
//     and RequestFlagUpload.
//  2. A concrete HTTP/JSON implementation (see RESTClient) that attaches
//     the access token to outbound requests, transparently refreshes an
//     expired token pair and retries once, and maps transport conditions
//     to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations)
//     for the CLI, wiring an SQLite database and applying embedded goose
//     migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable for transport failures, ErrDecode for
// malformed payloads, ErrUnauthorized for rejected credentials.
//
// Concurrency & Contexts
//
// RESTClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
//
// See Also
//
//   - Interface:  Client
//   - HTTP impl:  RESTClient
//   - DB helpers: InitDatabase, RunMigrations
//   - Errors:     ErrUnavailable, ErrDecode, ErrUnauthorized
package client
