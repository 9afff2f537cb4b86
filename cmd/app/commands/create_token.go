package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
	tokenUseCase "github.com/allisson/authtokens/internal/token/usecase"
)

// RunCreateToken issues a managed token for actorID and prints the plaintext once.
// Scopes use the all:<action>, database:<db>:<action> and resource:<db>:<resource>:<action>
// forms. Requires the token table to be migrated.
func RunCreateToken(
	ctx context.Context,
	useCase tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	actorID string,
	expiresAfter string,
	description string,
	scopes []string,
	format string,
) error {
	if actorID == "" {
		return fmt.Errorf("actor is required")
	}

	expireType, expireDuration, err := parseExpiresAfter(expiresAfter)
	if err != nil {
		return err
	}

	tags := make([]tokenDomain.ScopeTag, 0, len(scopes))
	for _, scope := range scopes {
		tag, ok := tokenDomain.ParseTag(scope)
		if !ok {
			return fmt.Errorf("invalid scope: %s", scope)
		}
		tags = append(tags, tag)
	}

	output, err := useCase.IssueForActor(ctx, actorID, &tokenDomain.IssueTokenInput{
		Description:    description,
		ExpireType:     expireType,
		ExpireDuration: expireDuration,
		Tags:           tags,
	})
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	logger.Info("token created",
		slog.Int64("token_id", output.Token.ID),
		slog.String("actor_id", actorID),
	)

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"id":                    output.Token.ID,
			"actor_id":              output.Token.ActorID,
			"token":                 output.PlainToken,
			"expires_after_seconds": output.Token.ExpiresAfterSeconds,
		})
	}

	_, _ = fmt.Fprintf(writer, "Token %d created for actor %s\n", output.Token.ID, actorID)
	_, _ = fmt.Fprintf(writer, "Token: %s\n", output.PlainToken)
	_, _ = fmt.Fprintln(writer, "Store it now: the token cannot be shown again.")
	return nil
}
