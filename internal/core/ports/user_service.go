package ports

import (
	"context"

	"github.com/accesshub/accesshub-api/internal/core/domain"
)

// UpdateUserInput holds the optional profile changes. Nil means unchanged.
type UpdateUserInput struct {
	Name       *string
	Email      *string
	Department *string
	Role       *string
	Status     *string
	IPAddress  string
}

// AdminSeed describes the account ensured at startup.
type AdminSeed struct {
	Name       string
	Email      string
	Password   string
	Department string
}

type UserService interface {
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	// Update applies profile changes. Role and status changes require an
	// admin caller, even when the caller is editing their own record.
	Update(ctx context.Context, caller *domain.Identity, id string, in UpdateUserInput) (*domain.User, error)
	// Delete refuses to remove the caller's own account.
	Delete(ctx context.Context, caller *domain.Identity, id, ip string) error
	Stats(ctx context.Context) (*domain.UserStats, error)
	EnsureAdmin(ctx context.Context, seed AdminSeed) (*domain.User, error)
}
