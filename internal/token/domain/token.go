package domain

import (
	"time"

	validation "github.com/jellydator/validation"
)

// Status is the single character lifecycle code stored in token_status.
type Status string

const (
	// StatusActive tokens authenticate requests.
	StatusActive Status = "A"
	// StatusRevoked tokens were ended by their owner or a privileged actor.
	StatusRevoked Status = "R"
	// StatusExpired tokens were ended by the expiry sweep.
	StatusExpired Status = "E"
)

// String returns a human readable status name.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusRevoked:
		return "revoked"
	case StatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Token is a persisted managed token. The plaintext credential is never stored; it is
// re-derivable only by signing ID with the process secret.
type Token struct {
	ID                  int64
	Status              Status
	Description         *string
	ActorID             string
	Permissions         *RestrictionScope
	CreatedTimestamp    int64
	LastUsedTimestamp   *int64
	ExpiresAfterSeconds *int64
	EndedTimestamp      *int64
	SecretVersion       int64
}

// ExpiresAt returns the epoch second at which the token expires, or nil if it never does.
func (t *Token) ExpiresAt() *int64 {
	if t.ExpiresAfterSeconds == nil {
		return nil
	}
	at := t.CreatedTimestamp + *t.ExpiresAfterSeconds
	return &at
}

// IsExpiredAt reports whether the token is logically expired at now, whatever its stored status.
func (t *Token) IsExpiredAt(now int64) bool {
	at := t.ExpiresAt()
	return at != nil && now >= *at
}

// IsActive reports whether the stored status is Active.
func (t *Token) IsActive() bool {
	return t.Status == StatusActive
}

// ExpireUnit is the unit accepted by issuance for expire_duration.
type ExpireUnit string

const (
	ExpireMinutes ExpireUnit = "minutes"
	ExpireHours   ExpireUnit = "hours"
	ExpireDays    ExpireUnit = "days"
)

// Seconds returns the length of one unit.
func (u ExpireUnit) Seconds() int64 {
	switch u {
	case ExpireMinutes:
		return int64(time.Minute / time.Second)
	case ExpireHours:
		return int64(time.Hour / time.Second)
	case ExpireDays:
		return int64(24 * time.Hour / time.Second)
	default:
		return 0
	}
}

// ExpireUnits lists the accepted units in display order.
var ExpireUnits = []ExpireUnit{ExpireMinutes, ExpireHours, ExpireDays}

// IssueTokenInput holds the issuance form. ExpireType empty means the token never expires.
type IssueTokenInput struct {
	Description    string
	ExpireType     string
	ExpireDuration string
	Tags           []ScopeTag
}

// ExpiresAfter validates the expiry fields and returns the lifetime in seconds, or nil for
// tokens that never expire. Failures are returned as validation.Errors keyed by form field.
func (i *IssueTokenInput) ExpiresAfter() (*int64, error) {
	if i.ExpireType == "" {
		return nil, nil
	}

	duration, ok := parsePositiveDigits(i.ExpireDuration)
	if !ok {
		return nil, validation.Errors{
			"expire_duration": validation.NewError("validation_expire_duration", "Invalid expire duration"),
		}
	}

	unit := ExpireUnit(i.ExpireType).Seconds()
	if unit == 0 {
		return nil, validation.Errors{
			"expire_type": validation.NewError("validation_expire_type", "Invalid expire duration unit"),
		}
	}

	seconds := duration * unit
	return &seconds, nil
}

// IssueTokenOutput is returned once by issuance. PlainToken cannot be recovered later.
type IssueTokenOutput struct {
	Token      *Token
	PlainToken string
}

// ListTokensInput selects a page of tokens. Cursor nil starts from the newest token.
type ListTokensInput struct {
	Cursor *int64
	Limit  int
}

// ListTokensOutput is a page of tokens ordered by id descending. Next is nil on the last page.
type ListTokensOutput struct {
	Tokens []*Token
	Next   *int64
}

// parsePositiveDigits accepts only ASCII digits with a value above zero.
func parsePositiveDigits(s string) (int64, bool) {
	if s == "" || len(s) > 12 {
		return 0, false
	}
	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	return n, n > 0
}

// ListFilter selects repository rows for List. Rows are ordered by id descending and,
// when Cursor is set, restricted to id <= Cursor.
type ListFilter struct {
	Cursor  *int64
	Limit   int
	ActorID *string
}
