package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accesshub/accesshub-api/internal/core/domain"
)

// successResponse is the envelope of every successful API response.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, successResponse{Success: true, Data: data})
}

func okMessage(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, successResponse{Success: true, Message: message, Data: data})
}

func okList[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return c.JSON(http.StatusOK, successResponse{Success: true, Count: &n, Data: items})
}

var errInvalidPayload = &domain.Error{Kind: domain.ErrValidation, Message: "Invalid request payload"}

// bindAndValidate decodes the request body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidPayload
	}
	return c.Validate(req)
}
