// Package usecase implements the managed token lifecycle: issuance, viewing, revocation,
// listing, expiry sweeps and verification of presented credentials.
package usecase

import (
	"context"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
)

// TokenRepository defines persistence operations for managed tokens.
// Implementations must support transaction-aware operations via context propagation.
type TokenRepository interface {
	// Create stores a new token and assigns its ID.
	Create(ctx context.Context, token *tokenDomain.Token) error

	// Get retrieves a token by ID. Returns ErrTokenNotFound if not found.
	Get(ctx context.Context, id int64) (*tokenDomain.Token, error)

	// Revoke moves an Active token to Revoked in one guarded statement. Returns false when
	// the token was not Active.
	Revoke(ctx context.Context, id, now int64) (bool, error)

	// SweepExpired moves logically expired Active tokens to Expired. A nil id sweeps all.
	SweepExpired(ctx context.Context, id *int64, now int64) (int64, error)

	// TouchLastUsed writes last_used_timestamp unless it was written within debounce seconds.
	TouchLastUsed(ctx context.Context, id, now, debounce int64) (bool, error)

	// List returns tokens ordered by id descending.
	List(ctx context.Context, filter tokenDomain.ListFilter) ([]*tokenDomain.Token, error)
}

// TokenUseCase defines the management and verification operations for managed tokens.
type TokenUseCase interface {
	// CheckIssue reports whether actor may issue tokens, returning the same errors Issue
	// would before looking at its input.
	CheckIssue(ctx context.Context, actor authDomain.Actor) error

	// Issue mints a token for the acting identity. The actor must have an id, must not be
	// token-derived and must hold the create-token privilege. Expiry input failures are
	// returned as ErrInvalidInput wrapping validation.Errors.
	//
	// The plaintext token is only returned here and cannot be recovered later.
	Issue(
		ctx context.Context,
		actor authDomain.Actor,
		input *tokenDomain.IssueTokenInput,
	) (*tokenDomain.IssueTokenOutput, error)

	// IssueForActor mints a token for actorID without privilege checks. It backs operator
	// tooling such as the create-token command.
	IssueForActor(
		ctx context.Context,
		actorID string,
		input *tokenDomain.IssueTokenInput,
	) (*tokenDomain.IssueTokenOutput, error)

	// Get returns a token the actor owns, or any token when the actor holds view-all-tokens.
	// Returns ErrTokenNotFound for unknown ids and ErrViewTokenDenied otherwise.
	Get(ctx context.Context, actor authDomain.Actor, id int64) (*tokenDomain.Token, error)

	// Revoke ends a token the actor owns, or any token when the actor holds
	// revoke-all-tokens. Revoking a token that already ended returns it unchanged.
	Revoke(ctx context.Context, actor authDomain.Actor, id int64) (*tokenDomain.Token, error)

	// RevokeByID ends any token without privilege checks. It backs the revoke-token command.
	RevokeByID(ctx context.Context, id int64) (*tokenDomain.Token, error)

	// List returns a page of the actor's tokens, or all tokens with view-all-tokens.
	List(
		ctx context.Context,
		actor authDomain.Actor,
		input *tokenDomain.ListTokensInput,
	) (*tokenDomain.ListTokensOutput, error)

	// SweepExpired reconciles every logically expired Active token. Returns the count.
	SweepExpired(ctx context.Context) (int64, error)

	// Verify resolves a presented managed credential to its actor. Every rejection returns
	// a nil actor and nil error; only store failures are returned as errors.
	Verify(ctx context.Context, credential string) (authDomain.Actor, error)
}
