package domain

import (
	"context"
)

// PrivilegeChecker answers whether an actor holds a named privilege.
type PrivilegeChecker interface {
	Allowed(ctx context.Context, actor Actor, privilege string) bool
}

// PrivilegeCheckerFunc adapts a function to PrivilegeChecker.
type PrivilegeCheckerFunc func(ctx context.Context, actor Actor, privilege string) bool

// Allowed calls f.
func (f PrivilegeCheckerFunc) Allowed(ctx context.Context, actor Actor, privilege string) bool {
	return f(ctx, actor, privilege)
}

// ActorLookup resolves display attributes for actor ids. Missing ids are omitted.
type ActorLookup interface {
	LookupActors(ctx context.Context, ids []string) (map[string]Actor, error)
}
