package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/authtokens/internal/errors"
	appvalidation "github.com/allisson/authtokens/internal/validation"
)

func TestHandleErrorGin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "not found",
			err:          apperrors.Wrap(apperrors.ErrNotFound, "token not found"),
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"not_found","message":"The requested resource was not found"}`,
		},
		{
			name:         "forbidden keeps domain message",
			err:          apperrors.Wrap(apperrors.ErrForbidden, "Permission denied: create-token"),
			expectedCode: http.StatusForbidden,
			expectedBody: `{"error":"forbidden","message":"Permission denied: create-token"}`,
		},
		{
			name:         "bare forbidden",
			err:          apperrors.ErrForbidden,
			expectedCode: http.StatusForbidden,
			expectedBody: `{"error":"forbidden","message":"You don't have permission to access this resource"}`,
		},
		{
			name:         "unauthorized",
			err:          apperrors.ErrUnauthorized,
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"error":"unauthorized","message":"Authentication is required"}`,
		},
		{
			name: "validation fields",
			err: appvalidation.WrapValidationError(validation.Errors{
				"expire_duration": errors.New("Invalid expire duration"),
			}),
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: `{"error":"validation_error","message":"Validation failed","fields":{"expire_duration":"Invalid expire duration"}}`,
		},
		{
			name:         "plain invalid input",
			err:          apperrors.Wrap(apperrors.ErrInvalidInput, "bad id"),
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: `{"error":"invalid_input","message":"bad id"}`,
		},
		{
			name:         "unavailable",
			err:          fmt.Errorf("%w: tokens", apperrors.ErrUnavailable),
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: `{"error":"unavailable","message":"A required backend is unavailable"}`,
		},
		{
			name:         "internal",
			err:          errors.New("database is locked"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"internal_error","message":"An internal error occurred"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedCode, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestHandleErrorGin_NilError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleErrorGin(c, nil, nil)

	assert.Empty(t, w.Body.String())
}

func TestHandleBadRequestGin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleBadRequestGin(c, errors.New("invalid token id"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"bad_request","message":"invalid token id"}`, w.Body.String())
}

func TestHandleErrorGin_TokenDomainReasons(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/-/api/tokens/create", nil)

	err := apperrors.Wrap(apperrors.ErrForbidden, "Token authentication cannot be used to create additional tokens")
	HandleErrorGin(c, fmt.Errorf("issue token: %w", err), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t,
		`{"error":"forbidden","message":"issue token: Token authentication cannot be used to create additional tokens"}`,
		w.Body.String())
}
