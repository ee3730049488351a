package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/accesshub/accesshub-api/internal/core/domain"
)

const identityKey = "identity"

// SetIdentity attaches the resolved caller to the request context.
func SetIdentity(c echo.Context, id *domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the caller attached by Auth or OptionalAuth, or nil.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(identityKey).(*domain.Identity)
	return id
}
