package client

import "errors"

var (
	// ErrUnavailable covers transport failures: refused connections,
	// timeouts and 5xx responses.
	ErrUnavailable = errors.New("server unavailable")

	// ErrDecode covers payloads that cannot be decoded into the expected
	// shape.
	ErrDecode = errors.New("malformed server response")

	ErrUnauthorized = errors.New("unauthorized")
)
