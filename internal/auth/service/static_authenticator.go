package service

import (
	"context"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
)

// StaticAuthenticator checks credentials against the configured token list.
type StaticAuthenticator struct {
	tokens []authDomain.StaticToken
	hasher SecretHasher
}

// NewStaticAuthenticator copies the list so later changes by the caller have no effect.
// hasher may be nil when no entry carries a hash.
func NewStaticAuthenticator(tokens []authDomain.StaticToken, hasher SecretHasher) *StaticAuthenticator {
	copied := make([]authDomain.StaticToken, len(tokens))
	copy(copied, tokens)
	return &StaticAuthenticator{tokens: copied, hasher: hasher}
}

// Len returns the number of configured entries.
func (s *StaticAuthenticator) Len() int {
	return len(s.tokens)
}

// Authenticate compares value with every plaintext entry in constant time and returns a copy
// of the first matching entry's actor. Hashed entries are only checked until a match is found.
func (s *StaticAuthenticator) Authenticate(_ context.Context, value string) (authDomain.Actor, error) {
	if value == "" {
		return nil, nil
	}

	presented := []byte(value)
	var matched authDomain.Actor
	for i := range s.tokens {
		entry := &s.tokens[i]
		var ok bool
		switch {
		case entry.Hash != "":
			ok = matched == nil && s.hasher != nil && s.hasher.CompareSecret(value, entry.Hash)
		default:
			ok = secretsEqual([]byte(entry.Token), presented)
		}
		if ok && matched == nil {
			matched = entry.Actor
		}
	}

	if matched == nil {
		return nil, nil
	}
	return matched.Clone(), nil
}
