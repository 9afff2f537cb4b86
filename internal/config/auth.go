package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	validation "github.com/jellydator/validation"
	"gopkg.in/yaml.v3"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
	apperrors "github.com/allisson/authtokens/internal/errors"
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
	customValidation "github.com/allisson/authtokens/internal/validation"
)

// StaticTokenConfig is one entry of the static token list.
type StaticTokenConfig struct {
	Token     string         `yaml:"token" json:"token"`
	TokenHash string         `yaml:"token_hash" json:"token_hash"`
	Actor     map[string]any `yaml:"actor" json:"actor"`
}

// QueryConfig configures the external query lookup.
type QueryConfig struct {
	SQL      string `yaml:"sql" json:"sql"`
	Database string `yaml:"database" json:"database"`
}

// AuthConfig is the YAML auth config file.
type AuthConfig struct {
	Tokens               []StaticTokenConfig `yaml:"tokens" json:"tokens"`
	Query                *QueryConfig        `yaml:"query" json:"query"`
	Param                string              `yaml:"param" json:"param"`
	ManageTokens         bool                `yaml:"manage_tokens" json:"manage_tokens"`
	ManageTokensDatabase string              `yaml:"manage_tokens_database" json:"manage_tokens_database"`
	Privileges           map[string][]string `yaml:"privileges" json:"privileges"`
	Actors               []map[string]any    `yaml:"actors" json:"actors"`
}

// LoadAuthConfig reads and validates the auth config at path. A missing file yields an empty
// config with defaults applied.
func LoadAuthConfig(path string) (*AuthConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if errors.Is(err, fs.ErrNotExist) {
		cfg := &AuthConfig{}
		cfg.applyDefaults()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read auth config: %w", err)
	}
	return ParseAuthConfig(data)
}

// ParseAuthConfig decodes and validates a YAML auth config.
func ParseAuthConfig(data []byte) (*AuthConfig, error) {
	var cfg AuthConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("invalid auth config: %v", err))
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}
	return &cfg, nil
}

func (c *AuthConfig) applyDefaults() {
	if c.ManageTokensDatabase == "" {
		c.ManageTokensDatabase = "default"
	}
	if c.Query != nil && c.Query.Database == "" {
		c.Query.Database = "default"
	}
}

var knownPrivileges = []interface{}{
	tokenDomain.PrivilegeCreateToken,
	tokenDomain.PrivilegeViewAllTokens,
	tokenDomain.PrivilegeRevokeAllTokens,
}

// Validate checks the auth config.
func (c *AuthConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Tokens, validation.Each(validation.By(validateStaticToken))),
		validation.Field(&c.Query, validation.By(validateQuery)),
		validation.Field(&c.Param, customValidation.NoWhitespace),
		validation.Field(&c.ManageTokensDatabase, customValidation.Identifier),
		validation.Field(&c.Privileges, validation.By(validatePrivileges)),
		validation.Field(&c.Actors, validation.Each(validation.By(validateActor))),
	)
}

func validateStaticToken(value interface{}) error {
	entry, ok := value.(StaticTokenConfig)
	if !ok {
		return validation.NewError("validation_token_type", "must be a token entry")
	}
	if (entry.Token == "") == (entry.TokenHash == "") {
		return validation.NewError("validation_token_secret", "exactly one of token or token_hash is required")
	}
	if entry.TokenHash != "" && !strings.HasPrefix(entry.TokenHash, "$argon2id$") {
		return validation.NewError("validation_token_hash", "token_hash must be an argon2id hash")
	}
	return validateActor(entry.Actor)
}

func validateActor(value interface{}) error {
	actor, _ := value.(map[string]any)
	if len(actor) == 0 {
		return validation.NewError("validation_actor", "actor is required")
	}
	if _, ok := actor[authDomain.ActorIDKey]; !ok {
		return validation.NewError("validation_actor_id", "actor must have an id")
	}
	return nil
}

func validateQuery(value interface{}) error {
	query, _ := value.(*QueryConfig)
	if query == nil {
		return nil
	}
	return validation.ValidateStruct(query,
		validation.Field(&query.SQL,
			validation.Required,
			customValidation.NotBlank,
			validation.By(func(value interface{}) error {
				if !strings.Contains(value.(string), ":"+authDomain.QueryParamName) {
					return validation.NewError("validation_query_param", "sql must reference :token_id")
				}
				return nil
			}),
		),
		validation.Field(&query.Database, customValidation.Identifier),
	)
}

func validatePrivileges(value interface{}) error {
	privileges, _ := value.(map[string][]string)
	for name := range privileges {
		if err := validation.Validate(name, validation.In(knownPrivileges...)); err != nil {
			return validation.NewError("validation_privilege", fmt.Sprintf("unknown privilege %q", name))
		}
	}
	return nil
}

// StaticTokens converts the static token list.
func (c *AuthConfig) StaticTokens() []authDomain.StaticToken {
	tokens := make([]authDomain.StaticToken, 0, len(c.Tokens))
	for _, entry := range c.Tokens {
		tokens = append(tokens, authDomain.StaticToken{
			Token: entry.Token,
			Hash:  entry.TokenHash,
			Actor: authDomain.Actor(entry.Actor),
		})
	}
	return tokens
}

// QuerySource converts the query configuration, or returns nil when none is set.
func (c *AuthConfig) QuerySource() *authDomain.QuerySource {
	if c.Query == nil {
		return nil
	}
	return &authDomain.QuerySource{SQL: c.Query.SQL, Store: c.Query.Database}
}

// Strategy returns the resolution strategy this config selects.
func (c *AuthConfig) Strategy() authDomain.Strategy {
	return authDomain.SelectStrategy(c.ManageTokens, len(c.Tokens), c.Query != nil)
}

// KnownActors returns the display actors, adding the actors of static tokens.
func (c *AuthConfig) KnownActors() []authDomain.Actor {
	actors := make([]authDomain.Actor, 0, len(c.Actors)+len(c.Tokens))
	for _, actor := range c.Actors {
		actors = append(actors, authDomain.Actor(actor))
	}
	for _, entry := range c.Tokens {
		actors = append(actors, authDomain.Actor(entry.Actor))
	}
	return actors
}
