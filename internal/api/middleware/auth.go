package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/accesshub/accesshub-api/internal/api/metrics"
	"github.com/accesshub/accesshub-api/internal/core/domain"
)

// IdentityResolver turns a bearer token into a caller.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*domain.Identity, error)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Any other header shape yields an empty token.
func bearerToken(c echo.Context) string {
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Auth resolves the bearer token and attaches the caller. Requests without a
// resolvable token fail with an unauthenticated error.
func Auth(resolver IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := resolver.ResolveIdentity(c.Request().Context(), bearerToken(c))
			if err != nil {
				metrics.AuthGateRejectionsTotal.Inc()
				return err
			}
			SetIdentity(c, id)
			return next(c)
		}
	}
}

// OptionalAuth behaves like Auth but lets the request through anonymously
// when there is no token or it cannot be resolved.
func OptionalAuth(resolver IdentityResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return next(c)
			}
			id, err := resolver.ResolveIdentity(c.Request().Context(), token)
			if err != nil {
				log.Debug().Err(err).Str("path", c.Path()).Msg("optional auth: continuing anonymously")
				return next(c)
			}
			SetIdentity(c, id)
			return next(c)
		}
	}
}
