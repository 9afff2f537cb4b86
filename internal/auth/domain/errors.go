package domain

import (
	"github.com/allisson/authtokens/internal/errors"
)

// Credential resolution errors. Rejected credentials are not errors; these report
// configuration or store problems that make resolution impossible.
var (
	// ErrMissingSecretColumn indicates the external query returned a row without token_secret.
	ErrMissingSecretColumn = errors.Wrap(errors.ErrUnavailable, "Returned row must contain a token_secret")

	// ErrQueryStoreMissing indicates the external query names an unregistered store.
	ErrQueryStoreMissing = errors.Wrap(errors.ErrUnavailable, "query database is not configured")
)
