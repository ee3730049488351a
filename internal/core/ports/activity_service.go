package ports

import (
	"context"

	"github.com/accesshub/accesshub-api/internal/core/domain"
)

// RecordActivityInput is a single Activity Log write.
type RecordActivityInput struct {
	ActorID     string
	Action      domain.ActivityAction
	Target      string
	Type        domain.ActivityType
	Description string
	Metadata    map[string]any
	IPAddress   string
}

// ActorInfo is the live view of an activity's actor.
type ActorInfo struct {
	ID    string      `json:"_id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// ActivityEntry is an activity plus, when the actor still exists, their
// current name, email and role.
type ActivityEntry struct {
	*domain.Activity
	UserInfo *ActorInfo `json:"userInfo,omitempty"`
}

type ActivityService interface {
	// Record returns domain.ErrActorNotFound when ActorID does not resolve.
	Record(ctx context.Context, in RecordActivityInput) (*domain.Activity, error)
	ListForActor(ctx context.Context, actorID, activityType string, limit int64) ([]*domain.Activity, error)
	List(ctx context.Context, filter ActivityFilter) ([]ActivityEntry, error)
	Stats(ctx context.Context, filter ActivityStatsFilter) (*domain.ActivityStats, error)
}
