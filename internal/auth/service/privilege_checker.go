package service

import (
	"context"
	"slices"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
)

// AnyActor grants a privilege to every actor with an id when listed in a privilege table.
const AnyActor = "*"

// PrivilegeTable grants privileges to actor ids from configuration.
type PrivilegeTable struct {
	grants map[string][]string
}

// NewPrivilegeTable copies grants, keyed by privilege name. When grants has no entry for
// create-token, every actor with an id may create tokens.
func NewPrivilegeTable(grants map[string][]string) *PrivilegeTable {
	copied := make(map[string][]string, len(grants))
	for privilege, ids := range grants {
		copied[privilege] = slices.Clone(ids)
	}
	if _, ok := copied[tokenDomain.PrivilegeCreateToken]; !ok {
		copied[tokenDomain.PrivilegeCreateToken] = []string{AnyActor}
	}
	return &PrivilegeTable{grants: copied}
}

// Allowed reports whether actor holds privilege. A token-derived actor with a restriction
// scope only keeps privileges its scope grants.
func (p *PrivilegeTable) Allowed(_ context.Context, actor authDomain.Actor, privilege string) bool {
	id := actor.ID()
	if id == "" {
		return false
	}

	if scope, ok := actor[authDomain.ActorRestrictionKey].(*tokenDomain.RestrictionScope); ok {
		if !scope.Allows(privilege, "", "") {
			return false
		}
	}

	ids := p.grants[privilege]
	return slices.Contains(ids, id) || slices.Contains(ids, AnyActor)
}

// ActorDirectory resolves display attributes for actor ids from configured actors.
type ActorDirectory struct {
	actors map[string]authDomain.Actor
}

// NewActorDirectory indexes actors by id. Later entries replace earlier ones.
func NewActorDirectory(actors ...authDomain.Actor) *ActorDirectory {
	index := make(map[string]authDomain.Actor, len(actors))
	for _, actor := range actors {
		if id := actor.ID(); id != "" {
			index[id] = actor.Clone()
		}
	}
	return &ActorDirectory{actors: index}
}

// LookupActors returns copies of the known actors among ids.
func (d *ActorDirectory) LookupActors(_ context.Context, ids []string) (map[string]authDomain.Actor, error) {
	found := make(map[string]authDomain.Actor, len(ids))
	for _, id := range ids {
		if actor, ok := d.actors[id]; ok {
			found[id] = actor.Clone()
		}
	}
	return found, nil
}
