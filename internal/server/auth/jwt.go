// Package auth issues and validates the HS256 access tokens used by the
// admin endpoints.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims — структура утверждений, которая включает стандартные утверждения и
// одно пользовательское AdminID
type Claims struct {
	jwt.RegisteredClaims
	AdminID string
}

func GenerateToken(adminID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		AdminID: adminID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetAdminIDFromToken validates the token signature and expiry and returns
// the embedded admin id. Only HS256 tokens are accepted. An expired token
// maps to common.ErrTokenExpired so callers can tell clients to refresh the
// pair instead of re-authenticating.
func GetAdminIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.AdminID, nil
}
