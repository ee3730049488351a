package ports

import (
	"context"
	"time"

	"github.com/accesshub/accesshub-api/internal/core/domain"
)

// ActivityFilter selects activities, newest first. Empty fields do not filter.
type ActivityFilter struct {
	UserID string
	Type   string
	Action string
	Limit  int64
}

// ActivityStatsFilter bounds an activity aggregate. From and To are inclusive.
type ActivityStatsFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
}

// ActivityRepository persists the append-only Activity Log. It deliberately
// has no update or delete.
type ActivityRepository interface {
	Insert(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	Find(ctx context.Context, filter ActivityFilter) ([]*domain.Activity, error)
	Stats(ctx context.Context, filter ActivityStatsFilter) (*domain.ActivityStats, error)
}
