package cli

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/geokeeper/internal/client/client"
	"github.com/dmitrijs2005/geokeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Metadata keys under which the admin session is persisted, so a restarted
// client keeps its session until the refresh token expires.
const (
	accessTokenKey  = "auth_access_token"
	refreshTokenKey = "auth_refresh_token"
	userNameKey     = "auth_username"
)

// Login prompts for admin credentials and authenticates against the origin.
//
// On success the issued token pair is installed on the API client and saved
// locally, and the connectivity mode switches to online (the round-trip just
// proved the origin reachable). Browse commands never need this; only push
// and setflag do.
//
// The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.apiClient.Login(ctx, userName, string(password)); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			log.Printf("Server unavailable, try again later")
			a.setMode(ModeOffline)
		} else {
			log.Printf("Login unsuccessfull: %s", err.Error())
		}
		return err
	}

	a.userName = userName
	a.setMode(ModeOnline)
	a.persistSession(ctx)

	log.Printf("Login successfull")
	return nil
}

// Logout drops the admin session, both in memory and in local storage.
func (a *App) Logout(ctx context.Context) error {
	a.apiClient.Logout()
	a.userName = ""

	for _, key := range []string{accessTokenKey, refreshTokenKey, userNameKey} {
		if err := a.repos.Metadata.Delete(ctx, key); err != nil {
			return err
		}
	}

	printlnFn("Logged out.")
	return nil
}

// persistSession saves the token pair currently held by the API client.
// Called after login and after commands that may rotate the pair.
func (a *App) persistSession(ctx context.Context) {
	access, refresh := a.apiClient.Tokens()
	if access == "" {
		return
	}

	values := map[string][]byte{
		accessTokenKey:  []byte(access),
		refreshTokenKey: []byte(refresh),
		userNameKey:     []byte(a.userName),
	}
	for _, key := range []string{accessTokenKey, refreshTokenKey, userNameKey} {
		if err := a.repos.Metadata.Set(ctx, key, values[key]); err != nil {
			log.Printf("error saving session: %v", err)
			return
		}
	}
}

// restoreSession reinstalls a previously saved token pair, if any. An
// expired access token is not a problem: the client rotates the pair on
// first authenticated call.
func (a *App) restoreSession(ctx context.Context) {
	access, err := a.repos.Metadata.Get(ctx, accessTokenKey)
	if err != nil || len(access) == 0 {
		return
	}
	refresh, err := a.repos.Metadata.Get(ctx, refreshTokenKey)
	if err != nil {
		return
	}
	user, _ := a.repos.Metadata.Get(ctx, userNameKey)

	a.apiClient.SetTokens(string(access), string(refresh))
	a.userName = string(user)
}
