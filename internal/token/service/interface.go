// Package service provides the cryptographic building blocks of managed tokens: the
// namespaced reference signer and the loader for the process signing secret.
package service

import (
	"context"
)

// ReferenceSigner signs integer references under a namespace. A value signed under one
// namespace never verifies under another.
type ReferenceSigner interface {
	// Sign returns the opaque signed form of id.
	Sign(namespace string, id int64) string

	// Verify returns the id carried by value, or ErrSignatureInvalid for any malformed,
	// truncated or tampered input.
	Verify(namespace string, value string) (int64, error)
}

// KeyKeeper wraps and unwraps key material with a KMS key. *secrets.Keeper implements it.
type KeyKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
