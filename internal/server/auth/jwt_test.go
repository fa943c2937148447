package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	adminID := "admin-123"

	tok, err := GenerateToken(adminID, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	gotAdminID, err := GetAdminIDFromToken(tok, secret)
	if err != nil {
		t.Fatalf("GetAdminIDFromToken error: %v", err)
	}
	if gotAdminID != adminID {
		t.Fatalf("adminID mismatch: got %q want %q", gotAdminID, adminID)
	}
}

func TestGetAdminIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	adminID := "a1"

	tok, err := GenerateToken(adminID, secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetAdminIDFromToken(tok, secret)
	if err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestGetAdminIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	adminID := "a2"
	tok, err := GenerateToken(adminID, []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetAdminIDFromToken(tok, []byte("wrong-secret"))
	if err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestGetAdminIDFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := GetAdminIDFromToken("not.a.jwt", []byte("k"))
	if err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}

// Токен с другим алгоритмом подписи должен отклоняться даже при верном
// секрете.
func TestGetAdminIDFromToken_WrongAlgorithm(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		AdminID: "a3",
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := GetAdminIDFromToken(signed, secret); err == nil {
		t.Fatalf("expected error for HS512 token, got nil")
	}
}
