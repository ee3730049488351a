package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accesshub/accesshub-api/internal/api/metrics"
	"github.com/accesshub/accesshub-api/internal/api/middleware"
	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  successResponse{data=authResponse}
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid_input").Inc()
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
		IPAddress:  c.RealIP(),
	})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", attemptResult(err)).Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues(string(res.User.Role)).Inc()
	return okMessage(c, http.StatusCreated, "User registered successfully", authResponse{User: res.User, Token: res.Token})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  successResponse{data=authResponse}
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_input").Inc()
		return errInvalidPayload
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, c.RealIP())
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", attemptResult(err)).Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues(string(res.User.Role)).Inc()
	return okMessage(c, http.StatusOK, "Login successful", authResponse{User: res.User, Token: res.Token})
}

// Me returns the caller's stored profile and the role carried by their token.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse{data=meResponse}
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return domain.ErrUnauthenticated
	}
	return ok(c, http.StatusOK, meResponse{User: id.User, TokenRole: id.Role})
}

// Logout records the logout. The client is expected to discard its token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), middleware.IdentityFrom(c), c.RealIP()); err != nil {
		return err
	}
	return okMessage(c, http.StatusOK, "Logged out successfully", nil)
}

func attemptResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrValidation):
		return "invalid_input"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate"
	default:
		return "error"
	}
}
