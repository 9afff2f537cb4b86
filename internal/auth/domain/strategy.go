package domain

// Strategy is the credential resolution mode, chosen once from configuration.
type Strategy int

const (
	// StrategyNone resolves nothing: no tokens, query or managed mode are configured.
	StrategyNone Strategy = iota
	// StrategyConfigured checks the static token list, then the external query if any.
	StrategyConfigured
	// StrategyManaged verifies managed tokens only; static tokens and the query are ignored.
	StrategyManaged
)

// String returns the strategy name used in logs and metrics.
func (s Strategy) String() string {
	switch s {
	case StrategyConfigured:
		return "configured"
	case StrategyManaged:
		return "managed"
	default:
		return "none"
	}
}

// SelectStrategy picks the strategy for a configuration. Managed mode wins outright.
func SelectStrategy(manageTokens bool, staticTokens int, hasQuery bool) Strategy {
	switch {
	case manageTokens:
		return StrategyManaged
	case staticTokens > 0 || hasQuery:
		return StrategyConfigured
	default:
		return StrategyNone
	}
}

// StaticToken binds a shared secret to the actor it authenticates as. Exactly one of Token
// (plaintext) or Hash (Argon2id PHC string) is set.
type StaticToken struct {
	Token string
	Hash  string
	Actor Actor
}

// QuerySource is the external lookup used for "<reference>-<secret>" credentials. SQL must
// bind :token_id and return a token_secret column; actor_* columns form the actor.
type QuerySource struct {
	SQL   string
	Store string
}

// Column conventions of the external query.
const (
	QuerySecretColumn = "token_secret"
	QueryActorPrefix  = "actor_"
	QueryParamName    = "token_id"
	QuerySeparator    = "-"
)
