package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/authtokens/internal/database"
	apperrors "github.com/allisson/authtokens/internal/errors"
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
)

// baseTokenRepository holds the statements that differ between dialects only in their
// placeholders. Dialect repositories embed it and add Create.
type baseTokenRepository struct {
	db     *sql.DB
	driver string
}

// Get retrieves a Token by ID. Returns ErrTokenNotFound if the token doesn't exist.
func (b *baseTokenRepository) Get(ctx context.Context, id int64) (*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, b.db)

	token, err := scanToken(querier.QueryRowContext(ctx, getQuery(b.driver), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}
	return token, nil
}

// Revoke moves an Active token to Revoked. Returns false when the token was not Active,
// including when it does not exist.
func (b *baseTokenRepository) Revoke(ctx context.Context, id, now int64) (bool, error) {
	querier := database.GetTx(ctx, b.db)

	result, err := querier.ExecContext(ctx, revokeQuery(b.driver), now, id)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to revoke token")
	}
	return affected(result, "failed to revoke token")
}

// SweepExpired moves Active tokens whose expiry has passed to Expired. A nil id sweeps
// every eligible token. Returns the number of tokens transitioned.
func (b *baseTokenRepository) SweepExpired(ctx context.Context, id *int64, now int64) (int64, error) {
	querier := database.GetTx(ctx, b.db)

	result, err := querier.ExecContext(ctx, sweepQuery(b.driver, id != nil), sweepArgs(id, now)...)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to sweep expired tokens")
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to sweep expired tokens")
	}
	return count, nil
}

// TouchLastUsed writes last_used_timestamp = now unless the stored value is newer than
// now - debounce. Returns whether a write happened.
func (b *baseTokenRepository) TouchLastUsed(ctx context.Context, id, now, debounce int64) (bool, error) {
	querier := database.GetTx(ctx, b.db)

	result, err := querier.ExecContext(ctx, touchQuery(b.driver), now, id, now-debounce)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to touch token")
	}
	return affected(result, "failed to touch token")
}

// List returns up to filter.Limit tokens ordered by id descending.
func (b *baseTokenRepository) List(ctx context.Context, filter tokenDomain.ListFilter) ([]*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, b.db)

	query, args := listQuery(b.driver, filter)
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tokens")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanTokens(rows)
}

func affected(result sql.Result, message string) (bool, error) {
	count, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, message)
	}
	return count > 0, nil
}
