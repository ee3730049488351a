package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accesshub/accesshub-api/internal/api/metrics"
	"github.com/accesshub/accesshub-api/internal/api/middleware"
	"github.com/accesshub/accesshub-api/internal/core/ports"
)

// UserHandler serves user management. Route gates decide who reaches each
// method; the service re-checks the privileged parts.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List returns users, newest first.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role        query     string  false  "Filter by role"
// @Param        status      query     string  false  "Filter by status"
// @Param        department  query     string  false  "Filter by department"
// @Param        search      query     string  false  "Case-insensitive match on name or email"
// @Success      200  {object}  successResponse{data=[]domain.User}
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context(), ports.UserFilter{
		Role:       c.QueryParam("role"),
		Status:     c.QueryParam("status"),
		Department: c.QueryParam("department"),
		Search:     c.QueryParam("search"),
	})
	if err != nil {
		return err
	}
	return okList(c, users)
}

// Get returns one user.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  successResponse{data=domain.User}
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, user)
}

// Update edits a user profile. Role and status changes require an admin.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  successResponse{data=domain.User}
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	user, err := h.service.Update(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"), ports.UpdateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Role:       req.Role,
		Status:     req.Status,
		IPAddress:  c.RealIP(),
	})
	if err != nil {
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("update").Inc()
	return okMessage(c, http.StatusOK, "User updated successfully", user)
}

// Delete removes a user. Callers cannot delete themselves.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  successResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"), c.RealIP()); err != nil {
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("delete").Inc()
	return okMessage(c, http.StatusOK, "User deleted successfully", nil)
}

// Stats returns user counts by status, role and department.
//
// @Summary      User statistics
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse{data=domain.UserStats}
// @Failure      403  {object}  errorResponse
// @Router       /users/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, stats)
}
