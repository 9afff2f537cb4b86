package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tokenUseCase "github.com/allisson/authtokens/internal/token/usecase"
)

// RunSweepExpiredTokens marks every active token past its expiry as expired.
// Supports both text and JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunSweepExpiredTokens(
	ctx context.Context,
	useCase tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("sweeping expired tokens")

	count, err := useCase.SweepExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep expired tokens: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{"count": count}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Marked %d token(s) as expired\n", count)
	}

	logger.Info("sweep completed", slog.Int64("count", count))
	return nil
}
