// Package domain defines the managed API token model: the persisted record, its lifecycle
// status, and the restriction scope that narrows what a token may do.
package domain

const (
	// TokenPrefix marks a credential as a managed token.
	TokenPrefix = "dsatok_"

	// SigningNamespace separates managed token references from any other signed values.
	SigningNamespace = "dsatok"

	// ActorTokenMarker is stored in the "token" field of actors authenticated by a managed token.
	ActorTokenMarker = "dsatok"

	// TouchDebounceSeconds bounds how often last_used_timestamp is written for one token.
	TouchDebounceSeconds int64 = 60

	// DefaultPageSize is used by List when no limit is supplied.
	DefaultPageSize = 30

	// MaxPageSize caps the limit accepted by List.
	MaxPageSize = 100
)

// Privileges checked by the management operations.
const (
	PrivilegeCreateToken     = "create-token"
	PrivilegeViewAllTokens   = "view-all-tokens"
	PrivilegeRevokeAllTokens = "revoke-all-tokens"
)

// ReservedScopeActions are never written into a restriction scope.
var ReservedScopeActions = []string{PrivilegeViewAllTokens, PrivilegeRevokeAllTokens}
