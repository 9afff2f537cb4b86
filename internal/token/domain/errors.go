package domain

import (
	"github.com/allisson/authtokens/internal/errors"
)

// Token errors.
var (
	// ErrTokenNotFound indicates a token with the specified ID was not found.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrSignatureInvalid indicates a signed reference failed verification.
	ErrSignatureInvalid = errors.Wrap(errors.ErrUnauthorized, "signature invalid")

	// ErrSigningSecretTooShort indicates the signing secret is below the minimum length.
	ErrSigningSecretTooShort = errors.Wrap(errors.ErrInvalidInput, "signing secret must be at least 16 bytes")

	// ErrLoginRequired indicates no actor was attached to a management request.
	ErrLoginRequired = errors.Wrap(errors.ErrForbidden, "You must be logged in to create a token")

	// ErrActorWithoutID indicates the actor has no id attribute.
	ErrActorWithoutID = errors.Wrap(
		errors.ErrForbidden,
		"You must be logged in as an actor with an ID to create a token",
	)

	// ErrTokenActor indicates a token-derived actor tried to mint another token.
	ErrTokenActor = errors.Wrap(
		errors.ErrForbidden,
		"Token authentication cannot be used to create additional tokens",
	)

	// ErrCreateTokenDenied indicates the actor lacks the create-token privilege.
	ErrCreateTokenDenied = errors.Wrap(errors.ErrForbidden, "Permission denied: create-token")

	// ErrViewTokenDenied indicates the actor may not view the requested token.
	ErrViewTokenDenied = errors.Wrap(errors.ErrForbidden, "Permission denied: view token")

	// ErrRevokeTokenDenied indicates the actor may not revoke the requested token.
	ErrRevokeTokenDenied = errors.Wrap(errors.ErrForbidden, "Permission denied: revoke token")
)
