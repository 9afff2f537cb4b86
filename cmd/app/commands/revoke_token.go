package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
	tokenUseCase "github.com/allisson/authtokens/internal/token/usecase"
)

// RunRevokeToken ends the token with the given id. Tokens that already ended are reported
// with their current status.
func RunRevokeToken(
	ctx context.Context,
	useCase tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	id int64,
	format string,
) error {
	if id <= 0 {
		return fmt.Errorf("id must be a positive number, got: %d", id)
	}

	token, err := useCase.RevokeByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	logger.Info("revoke token completed",
		slog.Int64("token_id", token.ID),
		slog.String("status", string(token.Status)),
	)

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"id":              token.ID,
			"status":          token.Status,
			"ended_timestamp": token.EndedTimestamp,
		})
	}

	switch token.Status {
	case tokenDomain.StatusRevoked:
		_, _ = fmt.Fprintf(writer, "Token %d is revoked\n", token.ID)
	case tokenDomain.StatusExpired:
		_, _ = fmt.Fprintf(writer, "Token %d already expired\n", token.ID)
	default:
		_, _ = fmt.Fprintf(writer, "Token %d has status %s\n", token.ID, token.Status)
	}
	return nil
}
