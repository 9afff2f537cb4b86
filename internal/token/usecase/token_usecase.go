package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
	"github.com/allisson/authtokens/internal/database"
	apperrors "github.com/allisson/authtokens/internal/errors"
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
	tokenService "github.com/allisson/authtokens/internal/token/service"
	"github.com/allisson/authtokens/internal/validation"
)

// ErrAuthenticationRequired indicates a management operation was called without an actor id.
var ErrAuthenticationRequired = apperrors.Wrap(apperrors.ErrUnauthorized, "authentication required")

type tokenUseCase struct {
	tokenRepo  TokenRepository
	signer     tokenService.ReferenceSigner
	privileges authDomain.PrivilegeChecker
	logger     *slog.Logger
	now        func() time.Time
	txManager  database.TxManager
}

// inline runs fn on the caller's connection, for use cases built without a TxManager.
type inline struct{}

func (inline) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Option customizes a TokenUseCase.
type Option func(*tokenUseCase)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *tokenUseCase) {
		t.now = now
	}
}

// WithTxManager makes each revocation write and re-read its token in one transaction.
func WithTxManager(txManager database.TxManager) Option {
	return func(t *tokenUseCase) {
		t.txManager = txManager
	}
}

// NewTokenUseCase creates a new TokenUseCase.
func NewTokenUseCase(
	tokenRepo TokenRepository,
	signer tokenService.ReferenceSigner,
	privileges authDomain.PrivilegeChecker,
	logger *slog.Logger,
	opts ...Option,
) TokenUseCase {
	uc := &tokenUseCase{
		tokenRepo:  tokenRepo,
		signer:     signer,
		privileges: privileges,
		logger:     logger,
		now:        time.Now,
		txManager:  inline{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (t *tokenUseCase) unixNow() int64 {
	return t.now().Unix()
}

// CheckIssue applies the issuance preconditions in order.
func (t *tokenUseCase) CheckIssue(ctx context.Context, actor authDomain.Actor) error {
	switch {
	case actor == nil:
		return tokenDomain.ErrLoginRequired
	case actor.ID() == "":
		return tokenDomain.ErrActorWithoutID
	case actor.IsTokenDerived():
		return tokenDomain.ErrTokenActor
	case !t.privileges.Allowed(ctx, actor, tokenDomain.PrivilegeCreateToken):
		return tokenDomain.ErrCreateTokenDenied
	}
	return nil
}

// Issue checks the actor and delegates to IssueForActor.
func (t *tokenUseCase) Issue(
	ctx context.Context,
	actor authDomain.Actor,
	input *tokenDomain.IssueTokenInput,
) (*tokenDomain.IssueTokenOutput, error) {
	if err := t.CheckIssue(ctx, actor); err != nil {
		return nil, err
	}
	return t.IssueForActor(ctx, actor.ID(), input)
}

// IssueForActor validates the expiry, merges the scope, persists the record and signs its id.
func (t *tokenUseCase) IssueForActor(
	ctx context.Context,
	actorID string,
	input *tokenDomain.IssueTokenInput,
) (*tokenDomain.IssueTokenOutput, error) {
	if actorID == "" {
		return nil, tokenDomain.ErrActorWithoutID
	}

	expiresAfter, err := input.ExpiresAfter()
	if err != nil {
		return nil, validation.WrapValidationError(err)
	}

	token := &tokenDomain.Token{
		Status:              tokenDomain.StatusActive,
		ActorID:             actorID,
		Permissions:         tokenDomain.MergeScope(input.Tags, tokenDomain.ReservedScopeActions...),
		CreatedTimestamp:    t.unixNow(),
		ExpiresAfterSeconds: expiresAfter,
	}
	if description := strings.TrimSpace(input.Description); description != "" {
		token.Description = &description
	}

	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &tokenDomain.IssueTokenOutput{
		Token:      token,
		PlainToken: tokenDomain.TokenPrefix + t.signer.Sign(tokenDomain.SigningNamespace, token.ID),
	}, nil
}

// load sweeps the token if it is due and then reads it.
func (t *tokenUseCase) load(ctx context.Context, id int64) (*tokenDomain.Token, error) {
	if _, err := t.tokenRepo.SweepExpired(ctx, &id, t.unixNow()); err != nil {
		return nil, err
	}
	return t.tokenRepo.Get(ctx, id)
}

// Get returns the token when the actor owns it or may view all tokens.
func (t *tokenUseCase) Get(ctx context.Context, actor authDomain.Actor, id int64) (*tokenDomain.Token, error) {
	if actor.ID() == "" {
		return nil, ErrAuthenticationRequired
	}

	token, err := t.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if token.ActorID != actor.ID() && !t.privileges.Allowed(ctx, actor, tokenDomain.PrivilegeViewAllTokens) {
		return nil, tokenDomain.ErrViewTokenDenied
	}
	return token, nil
}

// Revoke ends the token when the actor owns it or may revoke all tokens.
func (t *tokenUseCase) Revoke(ctx context.Context, actor authDomain.Actor, id int64) (*tokenDomain.Token, error) {
	if actor.ID() == "" {
		return nil, ErrAuthenticationRequired
	}

	token, err := t.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if token.ActorID != actor.ID() && !t.privileges.Allowed(ctx, actor, tokenDomain.PrivilegeRevokeAllTokens) {
		return nil, tokenDomain.ErrRevokeTokenDenied
	}

	return t.revoke(ctx, token, actor.ID())
}

// RevokeByID ends the token without ownership or privilege checks.
func (t *tokenUseCase) RevokeByID(ctx context.Context, id int64) (*tokenDomain.Token, error) {
	token, err := t.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.revoke(ctx, token, "")
}

func (t *tokenUseCase) revoke(ctx context.Context, token *tokenDomain.Token, revokedBy string) (*tokenDomain.Token, error) {
	if !token.IsActive() {
		return token, nil
	}

	var (
		revoked bool
		current *tokenDomain.Token
	)
	err := t.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if revoked, err = t.tokenRepo.Revoke(ctx, token.ID, t.unixNow()); err != nil {
			return err
		}
		current, err = t.tokenRepo.Get(ctx, token.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if revoked {
		t.logger.Info("token revoked",
			slog.Int64("token_id", token.ID),
			slog.String("actor_id", token.ActorID),
			slog.String("revoked_by", revokedBy),
		)
	}
	return current, nil
}

// List sweeps every due token and returns one page.
func (t *tokenUseCase) List(
	ctx context.Context,
	actor authDomain.Actor,
	input *tokenDomain.ListTokensInput,
) (*tokenDomain.ListTokensOutput, error) {
	if actor.ID() == "" {
		return nil, ErrAuthenticationRequired
	}

	if _, err := t.SweepExpired(ctx); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = tokenDomain.DefaultPageSize
	}
	if limit > tokenDomain.MaxPageSize {
		limit = tokenDomain.MaxPageSize
	}

	filter := tokenDomain.ListFilter{Cursor: input.Cursor, Limit: limit + 1}
	if !t.privileges.Allowed(ctx, actor, tokenDomain.PrivilegeViewAllTokens) {
		actorID := actor.ID()
		filter.ActorID = &actorID
	}

	tokens, err := t.tokenRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	output := &tokenDomain.ListTokensOutput{Tokens: tokens}
	if len(tokens) > limit {
		output.Tokens = tokens[:limit]
		next := tokens[limit-1].ID - 1
		output.Next = &next
	}
	return output, nil
}

// SweepExpired reconciles every due token.
func (t *tokenUseCase) SweepExpired(ctx context.Context) (int64, error) {
	count, err := t.tokenRepo.SweepExpired(ctx, nil, t.unixNow())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		t.logger.Debug("expired tokens swept", slog.Int64("count", count))
	}
	return count, nil
}

// Verify implements the managed credential check: prefix, signature, targeted sweep, load,
// status, debounced touch, then the actor.
func (t *tokenUseCase) Verify(ctx context.Context, credential string) (authDomain.Actor, error) {
	signed, ok := strings.CutPrefix(credential, tokenDomain.TokenPrefix)
	if !ok {
		return nil, nil
	}

	id, err := t.signer.Verify(tokenDomain.SigningNamespace, signed)
	if err != nil {
		t.logger.Debug("managed token rejected", slog.String("reason", "signature"))
		return nil, nil
	}

	now := t.unixNow()
	if _, err := t.tokenRepo.SweepExpired(ctx, &id, now); err != nil {
		return nil, err
	}

	token, err := t.tokenRepo.Get(ctx, id)
	if err != nil {
		if apperrors.Is(err, tokenDomain.ErrTokenNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !token.IsActive() || token.IsExpiredAt(now) {
		t.logger.Debug("managed token rejected",
			slog.String("reason", token.Status.String()),
			slog.Int64("token_id", id),
		)
		return nil, nil
	}

	if _, err := t.tokenRepo.TouchLastUsed(ctx, id, now, tokenDomain.TouchDebounceSeconds); err != nil {
		return nil, err
	}

	actor := authDomain.Actor{
		authDomain.ActorIDKey:      token.ActorID,
		authDomain.ActorTokenKey:   tokenDomain.ActorTokenMarker,
		authDomain.ActorTokenIDKey: token.ID,
	}
	if !token.Permissions.IsEmpty() {
		actor[authDomain.ActorRestrictionKey] = token.Permissions
	}
	return actor, nil
}
