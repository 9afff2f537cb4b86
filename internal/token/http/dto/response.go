package dto

import (
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
)

// statusLabels are the display names of token statuses.
var statusLabels = map[tokenDomain.Status]string{
	tokenDomain.StatusActive:  "Active",
	tokenDomain.StatusRevoked: "Revoked",
	tokenDomain.StatusExpired: "Expired",
}

// TokenResponse represents a managed token in API responses. The plaintext token is never
// included.
type TokenResponse struct {
	ID                  int64                         `json:"id"`
	Status              string                        `json:"status"`
	StatusLabel         string                        `json:"status_label"`
	Description         *string                       `json:"description"`
	ActorID             string                        `json:"actor_id"`
	Actor               map[string]any                `json:"actor,omitempty"`
	Permissions         *tokenDomain.RestrictionScope `json:"permissions"`
	CreatedTimestamp    int64                         `json:"created_timestamp"`
	CreatedAgo          string                        `json:"created_ago"`
	LastUsedTimestamp   *int64                        `json:"last_used_timestamp"`
	LastUsedAgo         string                        `json:"last_used_ago"`
	ExpiresAfterSeconds *int64                        `json:"expires_after_seconds"`
	ExpiresAt           *int64                        `json:"expires_at"`
	ExpiresIn           string                        `json:"expires_in"`
	EndedTimestamp      *int64                        `json:"ended_timestamp"`
	EndedAgo            string                        `json:"ended_ago"`
}

// MapTokenToResponse converts a domain token to an API response, rendering relative times
// against now. actor holds display attributes for the owner and may be nil.
func MapTokenToResponse(token *tokenDomain.Token, actor map[string]any, now int64) TokenResponse {
	created := token.CreatedTimestamp
	expiresAt := token.ExpiresAt()

	response := TokenResponse{
		ID:                  token.ID,
		Status:              string(token.Status),
		StatusLabel:         statusLabels[token.Status],
		Description:         token.Description,
		ActorID:             token.ActorID,
		Actor:               actor,
		Permissions:         token.Permissions,
		CreatedTimestamp:    created,
		CreatedAgo:          AgoDifference(&created, now),
		LastUsedTimestamp:   token.LastUsedTimestamp,
		LastUsedAgo:         AgoDifference(token.LastUsedTimestamp, now),
		ExpiresAfterSeconds: token.ExpiresAfterSeconds,
		ExpiresAt:           expiresAt,
		EndedTimestamp:      token.EndedTimestamp,
		EndedAgo:            AgoDifference(token.EndedTimestamp, now),
	}
	if token.IsActive() {
		response.ExpiresIn = AgoDifference(expiresAt, now)
	}
	return response
}

// IssueTokenResponse contains the result of issuing a token.
// SECURITY: The token is only returned once and must be saved securely.
type IssueTokenResponse struct {
	Token   string        `json:"token"` //nolint:gosec // returned once on creation
	Details TokenResponse `json:"token_details"`
}

// ListTokensResponse represents a page of tokens. Next is the cursor of the following page.
type ListTokensResponse struct {
	Data []TokenResponse `json:"data"`
	Next *int64          `json:"next"`
}

// MapTokensToListResponse converts a page of domain tokens to a list API response.
func MapTokensToListResponse(
	output *tokenDomain.ListTokensOutput,
	actors map[string]map[string]any,
	now int64,
) ListTokensResponse {
	data := make([]TokenResponse, 0, len(output.Tokens))
	for _, token := range output.Tokens {
		data = append(data, MapTokenToResponse(token, actors[token.ActorID], now))
	}
	return ListTokensResponse{
		Data: data,
		Next: output.Next,
	}
}

// TableResponse is a table offered for resource restrictions. Encoded is the tilde-encoded
// name used inside scope tags.
type TableResponse struct {
	Name    string `json:"name"`
	Encoded string `json:"encoded"`
}

// DatabaseResponse is a database offered for database and resource restrictions.
type DatabaseResponse struct {
	Name    string          `json:"name"`
	Encoded string          `json:"encoded"`
	Tables  []TableResponse `json:"tables"`
}

// NewDatabaseResponse builds the form entry for a database and its tables.
func NewDatabaseResponse(name string, tables []string) DatabaseResponse {
	response := DatabaseResponse{
		Name:    name,
		Encoded: tokenDomain.TildeEncode(name),
		Tables:  make([]TableResponse, 0, len(tables)),
	}
	for _, table := range tables {
		response.Tables = append(response.Tables, TableResponse{
			Name:    table,
			Encoded: tokenDomain.TildeEncode(table),
		})
	}
	return response
}

// CreateFormResponse describes what the create-token form may offer the actor.
type CreateFormResponse struct {
	Actor             map[string]any       `json:"actor"`
	ExpireUnits       []string             `json:"expire_units"`
	AllActions        []tokenDomain.Action `json:"all_permissions"`
	DatabaseActions   []tokenDomain.Action `json:"database_permissions"`
	ResourceActions   []tokenDomain.Action `json:"resource_permissions"`
	DatabasesAndTable []DatabaseResponse   `json:"database_with_tables"`
}

// NewCreateFormResponse builds the form metadata from the action catalogue.
func NewCreateFormResponse(actor map[string]any, databases []DatabaseResponse) CreateFormResponse {
	response := CreateFormResponse{
		Actor:             actor,
		ExpireUnits:       make([]string, 0, len(tokenDomain.ExpireUnits)),
		AllActions:        tokenDomain.Actions,
		DatabasesAndTable: databases,
	}
	for _, unit := range tokenDomain.ExpireUnits {
		response.ExpireUnits = append(response.ExpireUnits, string(unit))
	}
	for _, action := range tokenDomain.Actions {
		if action.TakesDatabase {
			response.DatabaseActions = append(response.DatabaseActions, action)
		}
		if action.TakesResource {
			response.ResourceActions = append(response.ResourceActions, action)
		}
	}
	return response
}
