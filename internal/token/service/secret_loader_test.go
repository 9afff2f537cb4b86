package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestSecretLoader_Load(t *testing.T) {
	ctx := context.Background()
	loader := NewSecretLoader()

	t.Run("Success_PlainSecret", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))

		secret, err := loader.Load(ctx, encoded, "")
		require.NoError(t, err)
		assert.Equal(t, []byte("0123456789abcdef"), secret)
	})

	t.Run("Success_KMSWrappedSecret", func(t *testing.T) {
		keyURI := generateLocalSecretsURI(t)

		encoded, err := loader.Generate(ctx, keyURI)
		require.NoError(t, err)

		secret, err := loader.Load(ctx, encoded, keyURI)
		require.NoError(t, err)
		assert.Len(t, secret, 32)

		raw, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		assert.NotEqual(t, raw, secret)
	})

	t.Run("Error_Missing", func(t *testing.T) {
		_, err := loader.Load(ctx, "", "")
		assert.ErrorIs(t, err, ErrSigningSecretMissing)
	})

	t.Run("Error_InvalidBase64", func(t *testing.T) {
		_, err := loader.Load(ctx, "not base64!", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode signing secret")
	})

	t.Run("Error_InvalidKeyURI", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("ciphertext"))
		_, err := loader.Load(ctx, encoded, "invalid://uri")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})

	t.Run("Error_WrongKey", func(t *testing.T) {
		encoded, err := loader.Generate(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)

		_, err = loader.Load(ctx, encoded, generateLocalSecretsURI(t))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decrypt signing secret")
	})
}

func TestSecretLoader_Generate(t *testing.T) {
	loader := NewSecretLoader()

	encoded, err := loader.Generate(context.Background(), "")
	require.NoError(t, err)

	secret, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Len(t, secret, 32)

	signer, err := NewSigner(SignerConfig{Secret: secret})
	require.NoError(t, err)
	assert.NotNil(t, signer)
}
