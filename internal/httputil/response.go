// Package httputil writes JSON error responses for the API handlers.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/authtokens/internal/errors"
	"github.com/allisson/authtokens/internal/validation"
)

// ErrorResponse is the JSON body of every failed API request.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// errorMapping ties a sentinel to its response. When showReason is set, the reason a domain
// error wraps the sentinel with replaces the generic message.
type errorMapping struct {
	sentinel   error
	status     int
	code       string
	message    string
	showReason bool
}

// Order matters: the first sentinel in the chain wins.
var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found", false},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data", false},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", "The request is invalid", true},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required", false},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden", "You don't have permission to access this resource", true},
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable, "unavailable", "A required backend is unavailable", false},
}

// HandleErrorGin writes the response mapped from err's sentinel. Unknown errors become a
// 500 whose body reveals nothing.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	status := http.StatusInternalServerError
	response := ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}

	for _, m := range errorMappings {
		if !apperrors.Is(err, m.sentinel) {
			continue
		}
		status = m.status
		response = ErrorResponse{Error: m.code, Message: m.message}
		if reason := apperrors.Reason(err, m.sentinel); m.showReason && reason != "" {
			response.Message = reason
		}
		break
	}

	if fields := validation.FieldErrors(err); fields != nil && status == http.StatusUnprocessableEntity {
		response = ErrorResponse{Error: "validation_error", Message: "Validation failed", Fields: fields}
	}

	if logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", status),
			slog.String("error_code", response.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(status, response)
}

// HandleBadRequestGin writes a 400 for a malformed body or path parameter.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: err.Error()})
}

// HandleValidationErrorGin writes a 422 listing the failed fields.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
		Fields:  validation.FieldErrors(err),
	})
}
