package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	"github.com/allisson/authtokens/internal/errors"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// ErrSigningSecretMissing indicates SIGNING_SECRET was not configured.
var ErrSigningSecretMissing = errors.Wrap(errors.ErrUnavailable, "signing secret is not configured")

// SecretLoader resolves the process signing secret from its configured encoding. When a KMS
// key URI is set, the configured value is a KMS ciphertext; otherwise it is the raw secret.
// Supported URIs: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
type SecretLoader struct {
	openKeeper func(ctx context.Context, keyURI string) (KeyKeeper, error)
}

// NewSecretLoader creates a loader backed by gocloud.dev/secrets.
func NewSecretLoader() *SecretLoader {
	return &SecretLoader{openKeeper: openKeeper}
}

func openKeeper(ctx context.Context, keyURI string) (KeyKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// Load decodes the base64 encoded secret and, when keyURI is set, decrypts it with the KMS key.
func (l *SecretLoader) Load(ctx context.Context, encoded, keyURI string) ([]byte, error) {
	if encoded == "" {
		return nil, ErrSigningSecretMissing
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signing secret: %w", err)
	}
	if keyURI == "" {
		return raw, nil
	}

	keeper, err := l.openKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	secret, err := keeper.Decrypt(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt signing secret: %w", err)
	}
	return secret, nil
}

// Generate creates a random 32-byte secret and returns it base64 encoded, wrapped with the
// KMS key when keyURI is set. The result is suitable for SIGNING_SECRET.
func (l *SecretLoader) Generate(ctx context.Context, keyURI string) (string, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("failed to generate signing secret: %w", err)
	}
	defer zero(secret)

	if keyURI == "" {
		return base64.StdEncoding.EncodeToString(secret), nil
	}

	keeper, err := l.openKeeper(ctx, keyURI)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = keeper.Close()
	}()

	ciphertext, err := keeper.Encrypt(ctx, secret)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt signing secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
