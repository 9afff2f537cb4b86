package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
	authUseCase "github.com/allisson/authtokens/internal/auth/usecase"
	apperrors "github.com/allisson/authtokens/internal/errors"
	"github.com/allisson/authtokens/internal/httputil"
)

// ExtractCredential reads the candidate credential from the Authorization header, falling
// back to the query parameter param when no header is present. An empty param disables the
// fallback.
func ExtractCredential(req *http.Request, param string) authDomain.Credential {
	var value string
	if param != "" {
		value = req.URL.Query().Get(param)
	}
	return authDomain.NewCredential(req.Header.Get("Authorization"), value)
}

// ActorMiddleware resolves the actor for every request and stores it in the request context.
// Anonymous requests continue without an actor. Resolution failures (configuration or store
// errors) abort the request.
func ActorMiddleware(resolver authUseCase.Resolver, param string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := resolver.Resolve(c.Request.Context(), ExtractCredential(c.Request, param))
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		if actor != nil {
			c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))
		}

		c.Next()
	}
}

// RequireActor rejects anonymous requests with 401 Unauthorized.
// MUST be used after ActorMiddleware.
func RequireActor(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetActor(c.Request.Context()); !ok {
			logger.Debug("anonymous request rejected", slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}
