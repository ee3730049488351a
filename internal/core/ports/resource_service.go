package ports

import (
	"context"

	"github.com/accesshub/accesshub-api/internal/core/domain"
)

type CreateResourceInput struct {
	Name         string
	Description  string
	Type         string
	Category     string
	Size         string
	URL          string
	FileName     string
	ObjectKey    string
	AccessLevel  string
	AllowedUsers []string
	Version      string
	Tags         []string
	IPAddress    string
}

// ResourceService enforces resource access rules. A nil caller is anonymous.
type ResourceService interface {
	List(ctx context.Context, caller *domain.Identity, filter ResourceFilter) ([]*domain.Resource, error)
	View(ctx context.Context, caller *domain.Identity, id, ip string) (*domain.Resource, error)
	// Download returns the link the caller should follow to fetch the file.
	Download(ctx context.Context, caller *domain.Identity, id, ip string) (string, error)
	Create(ctx context.Context, caller *domain.Identity, in CreateResourceInput) (*domain.Resource, error)
	Delete(ctx context.Context, caller *domain.Identity, id, ip string) error
}
