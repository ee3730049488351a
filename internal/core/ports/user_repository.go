package ports

import (
	"context"
	"time"

	"github.com/accesshub/accesshub-api/internal/core/domain"
)

// UserFilter carries the optional filters of the admin user listing.
type UserFilter struct {
	Role       string
	Status     string
	Department string
	Search     string // case-insensitive substring on name or email
}

// UserRepository is the persistence side of the Credential Store.
// Every method is a single-document operation.
type UserRepository interface {
	// Create inserts the user and returns it with its assigned ID.
	// Returns domain.ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when no user matches.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail expects an already normalized email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	// Update persists the mutable profile fields (name, email, department,
	// role, status, password hash, avatar) and bumps updatedAt.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.UserStats, error)
}
