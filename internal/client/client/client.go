package client

import (
	"context"

	"github.com/dmitrijs2005/geokeeper/internal/client/models"
)

type Client interface {
	Close() error

	// FetchAll retrieves the complete country collection from the origin.
	// It performs no retries; a transport failure surfaces as ErrUnavailable
	// and a malformed payload as ErrDecode.
	FetchAll(ctx context.Context) ([]models.Country, error)

	// Ping checks that the origin is reachable and healthy.
	Ping(ctx context.Context) error

	// Login authenticates an administrator and stores the issued token pair
	// for subsequent authenticated calls.
	Login(ctx context.Context, username string, password string) error

	// Logout drops the stored token pair.
	Logout()

	// IsAuthenticated reports whether a token pair is currently held.
	IsAuthenticated() bool

	// Tokens returns the token pair currently in use, empty strings when
	// logged out. Callers that want the session to survive a restart save
	// the pair and reinstall it with SetTokens.
	Tokens() (accessToken string, refreshToken string)

	// SetTokens installs a previously issued token pair.
	SetTokens(accessToken string, refreshToken string)

	// PushDataset replaces the authoritative data set on the origin.
	// Requires a prior Login.
	PushDataset(ctx context.Context, items []models.Country) error

	// RequestFlagUpload asks the origin for a presigned PUT URL to upload a
	// flag image for the named country. Requires a prior Login.
	RequestFlagUpload(ctx context.Context, countryName string) (string, error)
}
