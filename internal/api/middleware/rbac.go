package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/accesshub/accesshub-api/internal/api/metrics"
	"github.com/accesshub/accesshub-api/internal/core/domain"
)

var (
	errNoIdentity = &domain.Error{Kind: domain.ErrUnauthenticated, Message: "Not authorized, no token"}
	errNotSelf    = &domain.Error{Kind: domain.ErrForbidden, Message: "Not authorized to access this resource"}
	errNotManager = &domain.Error{Kind: domain.ErrForbidden, Message: "Access denied. Manager or Admin role required."}
)

// Authorize passes callers whose token role is one of allowedRoles.
func Authorize(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	names := make([]string, 0, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
		names = append(names, string(r))
	}
	required := strings.Join(names, ", ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if id == nil {
				return errNoIdentity
			}
			if _, ok := allowed[id.Role]; !ok {
				metrics.AuthorizationDenialsTotal.WithLabelValues("authorize").Inc()
				return domain.Errorf(domain.ErrForbidden, "User role '%s' is not authorized to access this route. Required: %s", id.Role, required)
			}
			return next(c)
		}
	}
}

// SelfOrAdmin passes when the path parameter names the caller, or the caller is an admin.
func SelfOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if id == nil {
				return errNoIdentity
			}
			if id.IsAdmin() || (id.ID() != "" && id.ID() == c.Param(param)) {
				return next(c)
			}
			metrics.AuthorizationDenialsTotal.WithLabelValues("self_or_admin").Inc()
			return errNotSelf
		}
	}
}

// ManagerOrAdmin passes managers and admins.
func ManagerOrAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if id == nil {
				return errNoIdentity
			}
			if id.Role == domain.RoleManager || id.Role == domain.RoleAdmin {
				return next(c)
			}
			metrics.AuthorizationDenialsTotal.WithLabelValues("manager_or_admin").Inc()
			return errNotManager
		}
	}
}
