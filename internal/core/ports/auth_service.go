package ports

import (
	"context"

	"github.com/accesshub/accesshub-api/internal/core/domain"
)

// RegisterInput is a self-service registration request.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Department string
	IPAddress  string
}

// AuthResult is returned by flows that hand out a session token.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService covers the Credential Store flows and token resolution.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	// Authenticate checks credentials and stamps lastLogin. Unknown email and
	// wrong password fail identically with domain.ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	// Login authenticates, issues a token and records the login activity.
	Login(ctx context.Context, email, password, ip string) (*AuthResult, error)
	// Logout records the logout activity on a best-effort basis. The token
	// stays valid unless revocation is enabled.
	Logout(ctx context.Context, caller *domain.Identity, ip string) error
	// ResolveIdentity verifies a bearer token and loads the caller.
	ResolveIdentity(ctx context.Context, token string) (*domain.Identity, error)
}
