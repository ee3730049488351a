package ports

import (
	"time"

	"github.com/accesshub/accesshub-api/internal/core/domain"
)

// TokenClaims is what a verified session token asserts about its holder.
type TokenClaims struct {
	UserID    string
	Role      domain.Role
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies signed, time-limited session tokens.
type TokenService interface {
	Issue(userID string, role domain.Role) (string, error)
	// Verify returns domain.ErrInvalidToken for bad signatures, malformed
	// tokens and expired tokens alike.
	Verify(token string) (*TokenClaims, error)
}
