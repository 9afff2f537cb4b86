package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
)

func TestActorHandler_GetHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewActorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("Success_Anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/-/actor", nil)

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"actor":null}`, w.Body.String())
	})

	t.Run("Success_Actor", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest(http.MethodGet, "/-/actor", nil)
		actor := authDomain.Actor{"id": "root", "token": "dsatok", "token_id": 1}
		c.Request = req.WithContext(WithActor(req.Context(), actor))

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response ActorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "root", response.Actor["id"])
		assert.Equal(t, "dsatok", response.Actor["token"])
		assert.InDelta(t, 1, response.Actor["token_id"], 0)
	})
}
