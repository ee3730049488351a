package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/accesshub/accesshub-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// errorKinds maps each error kind to its status and default message. The
// default message is used when the error carries no caller-facing text.
var errorKinds = []struct {
	kind    error
	status  int
	message string
}{
	{domain.ErrValidation, http.StatusBadRequest, "Validation failed"},
	{domain.ErrDuplicateEmail, http.StatusBadRequest, "User already exists with this email"},
	{domain.ErrSelfDeletion, http.StatusBadRequest, "You cannot delete your own account"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "Not authorized"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "Not authorized, token failed"},
	{domain.ErrForbidden, http.StatusForbidden, "Access forbidden"},
	{domain.ErrNotFound, http.StatusNotFound, "Not found"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders {"success": false, "message": "..."}; with exposeErrors the
//     underlying error text is added under "error".
func NewHTTPErrorHandler(log zerolog.Logger, exposeErrors bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		resp := errorResponse{Success: false, Message: msg}
		if exposeErrors && code >= http.StatusInternalServerError {
			resp.Error = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, k := range errorKinds {
		if !errors.Is(err, k.kind) {
			continue
		}
		var de *domain.Error
		if errors.As(err, &de) && de.Message != "" {
			return k.status, de.Message
		}
		return k.status, k.message
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Server Error"
}
