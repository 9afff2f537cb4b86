// Package http provides HTTP handlers for managed token operations.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
	authHTTP "github.com/allisson/authtokens/internal/auth/http"
	"github.com/allisson/authtokens/internal/database"
	"github.com/allisson/authtokens/internal/httputil"
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
	"github.com/allisson/authtokens/internal/token/http/dto"
	tokenUseCase "github.com/allisson/authtokens/internal/token/usecase"
	customValidation "github.com/allisson/authtokens/internal/validation"
)

// TokenHandler handles HTTP requests for managed token operations.
type TokenHandler struct {
	tokenUseCase tokenUseCase.TokenUseCase
	actors       authDomain.ActorLookup
	registry     *database.Registry
	logger       *slog.Logger
	now          func() time.Time
}

// NewTokenHandler creates a new token handler. actors and registry may be nil; display
// attributes and database listings are then omitted.
func NewTokenHandler(
	tokenUseCase tokenUseCase.TokenUseCase,
	actors authDomain.ActorLookup,
	registry *database.Registry,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		actors:       actors,
		registry:     registry,
		logger:       logger,
		now:          time.Now,
	}
}

func (h *TokenHandler) unixNow() int64 {
	return h.now().Unix()
}

// lookupActors returns display attributes for ids. Lookup failures only drop the display.
func (h *TokenHandler) lookupActors(ctx context.Context, ids ...string) map[string]map[string]any {
	if h.actors == nil || len(ids) == 0 {
		return nil
	}
	found, err := h.actors.LookupActors(ctx, ids)
	if err != nil {
		h.logger.Warn("actor lookup failed", slog.Any("error", err))
		return nil
	}
	result := make(map[string]map[string]any, len(found))
	for id, actor := range found {
		result[id] = actor
	}
	return result
}

// databases lists the registered stores and their visible tables.
func (h *TokenHandler) databases(ctx context.Context) []dto.DatabaseResponse {
	if h.registry == nil {
		return []dto.DatabaseResponse{}
	}
	databases := make([]dto.DatabaseResponse, 0)
	for _, name := range h.registry.Names() {
		store, err := h.registry.Get(name)
		if err != nil {
			continue
		}
		tables, err := database.ListTables(ctx, store)
		if err != nil {
			h.logger.Warn("list tables failed", slog.String("store", name), slog.Any("error", err))
			continue
		}
		databases = append(databases, dto.NewDatabaseResponse(name, tables))
	}
	return databases
}

// parseTokenID reads the :id path parameter.
func parseTokenID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid token ID format: must be a positive integer")
	}
	return id, nil
}

// CreateFormHandler describes the create-token form for the current actor.
// GET /-/api/tokens/create - Requires an actor allowed to issue tokens.
func (h *TokenHandler) CreateFormHandler(c *gin.Context) {
	actor, _ := authHTTP.GetActor(c.Request.Context())

	if err := h.tokenUseCase.CheckIssue(c.Request.Context(), actor); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewCreateFormResponse(actor, h.databases(c.Request.Context())))
}

// IssueHandler issues a token for the current actor.
// POST /-/api/tokens/create - Accepts a form or a JSON body.
// Returns 201 Created with the plaintext token, shown only once.
func (h *TokenHandler) IssueHandler(c *gin.Context) {
	actor, _ := authHTTP.GetActor(c.Request.Context())

	// Refusals take precedence over input errors.
	if err := h.tokenUseCase.CheckIssue(c.Request.Context(), actor); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var req dto.IssueTokenRequest
	if c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return
		}
	} else {
		if err := c.Request.ParseForm(); err != nil {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return
		}
		req = dto.IssueTokenRequestFromForm(c.Request.PostForm)
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.tokenUseCase.Issue(c.Request.Context(), actor, req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	token := output.Token
	response := dto.IssueTokenResponse{
		Token: output.PlainToken,
		Details: dto.MapTokenToResponse(
			token,
			h.lookupActors(c.Request.Context(), token.ActorID)[token.ActorID],
			h.unixNow(),
		),
	}

	c.JSON(http.StatusCreated, response)
}

// ListHandler lists tokens visible to the current actor, newest first.
// GET /-/api/tokens?next=<cursor>&limit=<n>
func (h *TokenHandler) ListHandler(c *gin.Context) {
	actor, _ := authHTTP.GetActor(c.Request.Context())

	cursor, limit, err := httputil.ParseCursorPagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	output, err := h.tokenUseCase.List(c.Request.Context(), actor, &tokenDomain.ListTokensInput{
		Cursor: cursor,
		Limit:  limit,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	ids := make([]string, 0, len(output.Tokens))
	seen := make(map[string]bool, len(output.Tokens))
	for _, token := range output.Tokens {
		if !seen[token.ActorID] {
			seen[token.ActorID] = true
			ids = append(ids, token.ActorID)
		}
	}

	c.JSON(http.StatusOK, dto.MapTokensToListResponse(
		output,
		h.lookupActors(c.Request.Context(), ids...),
		h.unixNow(),
	))
}

// GetHandler returns one token.
// GET /-/api/tokens/:id - Owner or view-all-tokens.
func (h *TokenHandler) GetHandler(c *gin.Context) {
	actor, _ := authHTTP.GetActor(c.Request.Context())

	id, err := parseTokenID(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	token, err := h.tokenUseCase.Get(c.Request.Context(), actor, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, h.tokenResponse(c.Request.Context(), token))
}

// UpdateHandler applies a form or JSON update to one token. revoke=1 revokes it.
// POST /-/api/tokens/:id - Owner or revoke-all-tokens for revocation.
func (h *TokenHandler) UpdateHandler(c *gin.Context) {
	actor, _ := authHTTP.GetActor(c.Request.Context())

	id, err := parseTokenID(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.UpdateTokenRequest
	if c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return
		}
	} else {
		if err := c.Request.ParseForm(); err != nil {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return
		}
		req = dto.UpdateTokenRequestFromForm(c.Request.PostForm)
	}

	var token *tokenDomain.Token
	if req.Revoke {
		token, err = h.tokenUseCase.Revoke(c.Request.Context(), actor, id)
	} else {
		token, err = h.tokenUseCase.Get(c.Request.Context(), actor, id)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, h.tokenResponse(c.Request.Context(), token))
}

func (h *TokenHandler) tokenResponse(ctx context.Context, token *tokenDomain.Token) dto.TokenResponse {
	return dto.MapTokenToResponse(token, h.lookupActors(ctx, token.ActorID)[token.ActorID], h.unixNow())
}
