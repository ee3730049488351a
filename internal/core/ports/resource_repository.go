package ports

import (
	"context"

	"github.com/accesshub/accesshub-api/internal/core/domain"
)

// ResourceFilter carries the optional listing filters.
type ResourceFilter struct {
	Category string
	Type     string
	Tag      string
	Search   string
	Status   domain.ResourceStatus
}

// ResourceCounter names a resource usage counter.
type ResourceCounter string

const (
	CounterViews     ResourceCounter = "views"
	CounterDownloads ResourceCounter = "downloads"
)

type ResourceRepository interface {
	Create(ctx context.Context, r *domain.Resource) (*domain.Resource, error)
	// FindByID returns domain.ErrResourceNotFound when no resource matches.
	FindByID(ctx context.Context, id string) (*domain.Resource, error)
	List(ctx context.Context, filter ResourceFilter) ([]*domain.Resource, error)
	// Increment atomically adds one to the counter and returns the updated resource.
	Increment(ctx context.Context, id string, counter ResourceCounter) (*domain.Resource, error)
	SetStatus(ctx context.Context, id string, status domain.ResourceStatus) error
}
