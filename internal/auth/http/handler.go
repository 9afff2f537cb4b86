package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ActorResponse reports the actor attached to the current request.
type ActorResponse struct {
	Actor map[string]any `json:"actor"`
}

// ActorHandler exposes the resolved actor.
type ActorHandler struct {
	logger *slog.Logger
}

// NewActorHandler creates a new actor handler.
func NewActorHandler(logger *slog.Logger) *ActorHandler {
	return &ActorHandler{logger: logger}
}

// GetHandler returns the resolved actor, or null for anonymous requests.
// GET /-/actor
func (h *ActorHandler) GetHandler(c *gin.Context) {
	actor, _ := GetActor(c.Request.Context())
	c.JSON(http.StatusOK, ActorResponse{Actor: actor})
}
