package commands

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	authService "github.com/allisson/authtokens/internal/auth/service"
)

// RunHashToken reads a static token secret from the first input line and prints its Argon2id
// hash for use as token_hash in the auth config. With generate set, a random secret is
// created instead and both values are printed.
func RunHashToken(hasher authService.SecretHasher, logger *slog.Logger, io IOTuple, generate bool) error {
	if generate {
		plain, hash, err := hasher.GenerateSecret()
		if err != nil {
			return fmt.Errorf("failed to generate secret: %w", err)
		}
		_, _ = fmt.Fprintf(io.Writer, "token: %s\n", plain)
		_, _ = fmt.Fprintf(io.Writer, "token_hash: %s\n", hash)
		logger.Info("static token secret generated")
		return nil
	}

	scanner := bufio.NewScanner(io.Reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read secret: %w", err)
		}
		return errors.New("no secret provided on input")
	}

	secret := strings.TrimSpace(scanner.Text())
	if secret == "" {
		return errors.New("no secret provided on input")
	}

	hash, err := hasher.HashSecret(secret)
	if err != nil {
		return fmt.Errorf("failed to hash secret: %w", err)
	}

	_, _ = fmt.Fprintln(io.Writer, hash)
	logger.Info("static token secret hashed")
	return nil
}
