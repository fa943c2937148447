// Package cryptox implements the credential scheme used for admin accounts.
// A password is stretched with Argon2id against a per-account salt, and the
// database stores only a SHA-256 verifier of the stretched key, so neither
// the password nor the derived key ever reaches disk.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// DeriveKey stretches a password with Argon2id using the given salt.
// The same parameters must be used when the account is created and when
// a login attempt is checked.
func DeriveKey(password []byte, salt []byte) []byte {
	x := argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
	return x
}

// MakeVerifier returns the value stored in the database for a derived key.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// VerifierFromPassword combines DeriveKey and MakeVerifier.
func VerifierFromPassword(password []byte, salt []byte) []byte {
	return MakeVerifier(DeriveKey(password, salt))
}

// CheckVerifier compares a stored verifier with a candidate in constant time.
func CheckVerifier(verifier []byte, candidate []byte) bool {
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}
