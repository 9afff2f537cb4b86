// Package domain defines the request-facing authentication model: the actor a credential
// resolves to, the credential extracted from a request, and the resolution strategy.
package domain

import (
	"fmt"
)

// Actor attribute keys with meaning to this module.
const (
	ActorIDKey          = "id"
	ActorTokenKey       = "token"
	ActorTokenIDKey     = "token_id"
	ActorRestrictionKey = "_r"
)

// Actor is the identity a request is attributed to: an id plus free-form attributes. It is
// serialized as-is to hosts, so keys follow the host's actor conventions.
type Actor map[string]any

// ID returns the actor's id attribute as a string, or "" when missing.
func (a Actor) ID() string {
	if a == nil {
		return ""
	}
	switch v := a[ActorIDKey].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// IsTokenDerived reports whether the actor was authenticated by an API token.
func (a Actor) IsTokenDerived() bool {
	if a == nil {
		return false
	}
	v, ok := a[ActorTokenKey]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return s != ""
	}
	return true
}

// Clone returns a shallow copy so callers can attach attributes without mutating config.
func (a Actor) Clone() Actor {
	if a == nil {
		return nil
	}
	clone := make(Actor, len(a))
	for k, v := range a {
		clone[k] = v
	}
	return clone
}
