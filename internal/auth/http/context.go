// Package http provides the request-facing side of credential resolution: extraction,
// actor middleware and rate limiting.
package http

import (
	"context"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
)

// actorKey is a context key type for storing the resolved actor.
type actorKey struct{}

// WithActor stores the resolved actor in the context.
func WithActor(ctx context.Context, actor authDomain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor retrieves the resolved actor from the context.
// Returns (actor, true) if an actor is present, or (nil, false) for anonymous requests.
func GetActor(ctx context.Context) (authDomain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(authDomain.Actor)
	return actor, ok && actor != nil
}
