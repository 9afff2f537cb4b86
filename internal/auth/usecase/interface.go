// Package usecase resolves the actor behind a request credential using the strategy chosen
// at startup.
package usecase

import (
	"context"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
)

// ManagedVerifier verifies managed credentials. It is satisfied by the token use case.
type ManagedVerifier interface {
	Verify(ctx context.Context, credential string) (authDomain.Actor, error)
}

// Resolver turns an extracted credential into an actor.
type Resolver interface {
	// Resolve returns the actor for cred, or nil when the credential is absent, malformed or
	// rejected. Only configuration and store failures are returned as errors.
	Resolve(ctx context.Context, cred authDomain.Credential) (authDomain.Actor, error)

	// Strategy returns the strategy selected at construction.
	Strategy() authDomain.Strategy
}
