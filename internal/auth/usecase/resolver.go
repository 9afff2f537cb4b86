package usecase

import (
	"context"
	"log/slog"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
	authService "github.com/allisson/authtokens/internal/auth/service"
)

// ResolverDeps holds the authenticators a strategy may dispatch to. Unused fields may be nil.
type ResolverDeps struct {
	Static  authService.Authenticator
	Query   authService.Authenticator
	Managed ManagedVerifier
}

type resolver struct {
	strategy authDomain.Strategy
	deps     ResolverDeps
	logger   *slog.Logger
}

// NewResolver creates a Resolver dispatching to deps according to strategy.
func NewResolver(strategy authDomain.Strategy, deps ResolverDeps, logger *slog.Logger) Resolver {
	return &resolver{
		strategy: strategy,
		deps:     deps,
		logger:   logger,
	}
}

// Strategy returns the strategy selected at construction.
func (r *resolver) Strategy() authDomain.Strategy {
	return r.strategy
}

// Resolve dispatches on the strategy. Managed mode never consults the static list or query.
func (r *resolver) Resolve(ctx context.Context, cred authDomain.Credential) (authDomain.Actor, error) {
	if !cred.Present() {
		if cred.Malformed {
			r.logger.Debug("credential rejected",
				slog.String("strategy", r.strategy.String()),
				slog.String("reason", "malformed authorization header"),
			)
		}
		return nil, nil
	}

	var (
		actor authDomain.Actor
		err   error
	)
	switch r.strategy {
	case authDomain.StrategyManaged:
		actor, err = r.deps.Managed.Verify(ctx, cred.Value)
	case authDomain.StrategyConfigured:
		actor, err = r.resolveConfigured(ctx, cred.Value)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("credential resolved",
		slog.String("strategy", r.strategy.String()),
		slog.String("source", cred.Source.String()),
		slog.Bool("authenticated", actor != nil),
	)
	return actor, nil
}

// resolveConfigured checks the static list first, then the external query.
func (r *resolver) resolveConfigured(ctx context.Context, value string) (authDomain.Actor, error) {
	if r.deps.Static != nil {
		actor, err := r.deps.Static.Authenticate(ctx, value)
		if err != nil || actor != nil {
			return actor, err
		}
	}
	if r.deps.Query != nil {
		return r.deps.Query.Authenticate(ctx, value)
	}
	return nil, nil
}
