// Package dto provides data transfer objects for the token management endpoints.
package dto

import (
	"net/url"
	"sort"
	"strings"

	validation "github.com/jellydator/validation"

	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
	customValidation "github.com/allisson/authtokens/internal/validation"
)

// MaxDescriptionLength bounds the free-text token description.
const MaxDescriptionLength = 1000

// Form field names shared by the form and JSON encodings.
const (
	FieldDescription    = "description"
	FieldExpireType     = "expire_type"
	FieldExpireDuration = "expire_duration"
	FieldRevoke         = "revoke"
)

// IssueTokenRequest contains the parameters for issuing a managed token. Restrictions holds
// scope tags such as "all:view-instance" or "resource:fixtures:facetable:view-table".
type IssueTokenRequest struct {
	Description    string   `json:"description"`
	ExpireType     string   `json:"expire_type"`
	ExpireDuration string   `json:"expire_duration"`
	Restrictions   []string `json:"restrictions"`
}

// IssueTokenRequestFromForm reads a posted form. Every field whose name parses as a scope
// tag is taken as a restriction, whatever its value.
func IssueTokenRequestFromForm(form url.Values) IssueTokenRequest {
	req := IssueTokenRequest{
		Description:    form.Get(FieldDescription),
		ExpireType:     form.Get(FieldExpireType),
		ExpireDuration: form.Get(FieldExpireDuration),
	}
	for key := range form {
		if _, ok := tokenDomain.ParseTag(key); ok {
			req.Restrictions = append(req.Restrictions, key)
		}
	}
	sort.Strings(req.Restrictions)
	return req
}

// Validate checks the request shape. The expiry unit is validated by issuance itself, and
// restrictions that do not parse as scope tags are dropped by ToDomain.
func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Description,
			validation.Length(0, MaxDescriptionLength),
		),
		validation.Field(&r.ExpireDuration,
			customValidation.NoWhitespace,
			validation.When(r.ExpireType != "", customValidation.Digits),
		),
	)
}

// ToDomain converts the request into issuance input.
func (r *IssueTokenRequest) ToDomain() *tokenDomain.IssueTokenInput {
	return &tokenDomain.IssueTokenInput{
		Description:    r.Description,
		ExpireType:     r.ExpireType,
		ExpireDuration: r.ExpireDuration,
		Tags:           tokenDomain.ParseTags(r.Restrictions),
	}
}

// UpdateTokenRequest is posted to a token's detail endpoint. Revoke ends the token.
type UpdateTokenRequest struct {
	Revoke bool `json:"revoke"`
}

// UpdateTokenRequestFromForm reads a posted form. Any non-empty revoke value other than
// "0" or "false" requests revocation.
func UpdateTokenRequestFromForm(form url.Values) UpdateTokenRequest {
	value := strings.ToLower(strings.TrimSpace(form.Get(FieldRevoke)))
	return UpdateTokenRequest{Revoke: value != "" && value != "0" && value != "false"}
}
