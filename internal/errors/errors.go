// Package errors holds the sentinel errors shared by the token and auth modules. Domain
// errors wrap one sentinel with a user facing reason; handlers pick the HTTP status from the
// sentinel and may show the reason.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the write collides with existing data.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates a request or configuration value failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates a credential was required or could not be verified.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the actor lacks the required privilege.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a configured collaborator (named store, key keeper) is missing.
	ErrUnavailable = errors.New("unavailable")
)

// Wrap prefixes err with reason, keeping err in the chain. A nil err stays nil.
func Wrap(err error, reason string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", reason, err)
}

// Reason returns what err adds on top of sentinel, or "" when err is the sentinel itself
// or does not end with it.
func Reason(err, sentinel error) string {
	reason, ok := strings.CutSuffix(err.Error(), ": "+sentinel.Error())
	if !ok {
		return ""
	}
	return reason
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
