// Package services contains server-side business logic. This file implements
// AuthService, which verifies admin credentials and issues/refreshes JWTs
// plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/common"
	"github.com/dmitrijs2005/geokeeper/internal/cryptox"
	"github.com/dmitrijs2005/geokeeper/internal/dbx"
	"github.com/dmitrijs2005/geokeeper/internal/server/auth"
	"github.com/dmitrijs2005/geokeeper/internal/server/config"
	"github.com/dmitrijs2005/geokeeper/internal/server/models"
	"github.com/dmitrijs2005/geokeeper/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService provides authentication-related operations:
// - Login: verify credentials and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
// - EnsureAdmin: create the seed operator account on first start
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	decoySalt                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		decoySalt:                    common.GenerateRandByteArray(32),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Login verifies the password against the stored verifier and, on success,
// returns a new TokenPair. Unknown accounts still pay the key derivation
// cost so their absence does not show up in response timing.
func (s *AuthService) Login(ctx context.Context, userName string, password string) (*TokenPair, error) {
	repo := s.repomanager.Admins(s.db)
	admin, err := repo.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.VerifierFromPassword([]byte(password), s.decoySalt)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	candidate := cryptox.VerifierFromPassword([]byte(password), admin.Salt)
	if !cryptox.CheckVerifier(admin.Verifier, candidate) {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, admin.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %v", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.AdminID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// PurgeExpiredTokens removes refresh tokens whose expiry has passed. Rotation
// deletes every token that gets redeemed; this sweeps the ones that never
// come back, e.g. after a client logged out or lost its local database.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, time.Now())
}

// EnsureAdmin returns the admin account with the given username, creating it
// with a fresh salt and verifier when it does not exist yet. The password of
// an existing account is left unchanged.
func (s *AuthService) EnsureAdmin(ctx context.Context, userName string, password string) (*models.Admin, error) {
	repo := s.repomanager.Admins(s.db)

	admin, err := repo.GetByUserName(ctx, userName)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking admin account: %w", err)
	}

	salt := common.GenerateRandByteArray(32)
	created, err := repo.Create(ctx, &models.Admin{
		UserName: userName,
		Salt:     salt,
		Verifier: cryptox.VerifierFromPassword([]byte(password), salt),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating admin account: %w", err)
	}
	return created, nil
}

// --- helpers below ---

func (s *AuthService) generateAccessToken(adminID string) (string, error) {
	return auth.GenerateToken(adminID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *AuthService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *AuthService) generateTokenPair(ctx context.Context, adminID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(adminID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, adminID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
