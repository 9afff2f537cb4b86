package domain

// CredentialSource records where a credential was found on the request.
type CredentialSource int

const (
	// SourceNone means the request carried no credential.
	SourceNone CredentialSource = iota
	// SourceHeader means the credential came from "Authorization: Bearer <value>".
	SourceHeader
	// SourceQueryParam means the credential came from the configured query parameter.
	SourceQueryParam
)

// String returns the source name used in logs and metrics.
func (s CredentialSource) String() string {
	switch s {
	case SourceHeader:
		return "header"
	case SourceQueryParam:
		return "query_param"
	default:
		return "none"
	}
}

// BearerPrefix is the exact, case-sensitive scheme prefix accepted in Authorization.
const BearerPrefix = "Bearer "

// Credential is the candidate credential extracted once at the HTTP boundary. Malformed is
// set when an Authorization header is present without the Bearer prefix; such requests
// never fall back to the query parameter.
type Credential struct {
	Source    CredentialSource
	Value     string
	Malformed bool
}

// Present reports whether the credential is worth resolving.
func (c Credential) Present() bool {
	return !c.Malformed && c.Source != SourceNone && c.Value != ""
}

// NewCredential builds a credential from an Authorization header value and a query
// parameter value, either of which may be empty.
func NewCredential(authorization, param string) Credential {
	if authorization != "" {
		if len(authorization) < len(BearerPrefix) || authorization[:len(BearerPrefix)] != BearerPrefix {
			return Credential{Source: SourceHeader, Malformed: true}
		}
		return Credential{Source: SourceHeader, Value: authorization[len(BearerPrefix):]}
	}
	if param != "" {
		return Credential{Source: SourceQueryParam, Value: param}
	}
	return Credential{Source: SourceNone}
}
