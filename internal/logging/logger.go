// Package logging defines the structured-logging interface shared by the
// server and the client. The single implementation wraps slog, but nothing
// outside this package depends on that.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// key–value pairs:
//
//	log.Info(ctx, "Starting server", "addr", addr)
type Logger interface {
	// Debug logs verbose detail, e.g. individual sync decisions.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs normal lifecycle events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
