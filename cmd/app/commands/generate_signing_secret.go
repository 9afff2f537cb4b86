package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// SigningSecretGenerator creates new values for SIGNING_SECRET.
type SigningSecretGenerator interface {
	Generate(ctx context.Context, keyURI string) (string, error)
}

// RunGenerateSigningSecret prints a fresh signing secret, encrypted with the KMS key when
// keyURI is set. Replacing the secret invalidates every issued managed token.
func RunGenerateSigningSecret(
	ctx context.Context,
	generator SigningSecretGenerator,
	logger *slog.Logger,
	writer io.Writer,
	keyURI string,
) error {
	secret, err := generator.Generate(ctx, keyURI)
	if err != nil {
		return fmt.Errorf("failed to generate signing secret: %w", err)
	}

	logger.Info("signing secret generated", slog.Bool("kms", keyURI != ""))

	_, _ = fmt.Fprintf(writer, "SIGNING_SECRET=%s\n", secret)
	if keyURI != "" {
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=%s\n", keyURI)
	}
	return nil
}
