// Package service implements the credential checks behind the resolver: the static token
// list, the external query and the privilege table.
package service

import (
	"context"
	"crypto/subtle"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
)

// Authenticator resolves a raw credential value to an actor. A rejected credential yields a
// nil actor and nil error; errors are reserved for configuration or store failures.
type Authenticator interface {
	Authenticate(ctx context.Context, value string) (authDomain.Actor, error)
}

// SecretHasher hashes and verifies static token secrets.
type SecretHasher interface {
	// GenerateSecret creates a new random secret and returns it with its hash.
	GenerateSecret() (plainSecret string, hashedSecret string, err error)

	// HashSecret hashes a plain text secret.
	HashSecret(plainSecret string) (string, error)

	// CompareSecret compares a plain text secret against a hash in constant time.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// secretsEqual compares two secrets without an early exit on the first differing byte.
var secretsEqual = func(stored, presented []byte) bool {
	return subtle.ConstantTimeCompare(stored, presented) == 1
}
