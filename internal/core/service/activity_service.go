package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
	"github.com/accesshub/accesshub-api/internal/pkg/sanitize"
)

const (
	DefaultOwnActivityLimit = 50
	DefaultActivityLimit    = 100
	MaxActivityLimit        = 500
)

type activityService struct {
	users      ports.UserRepository
	activities ports.ActivityRepository
	log        zerolog.Logger
	now        func() time.Time
}

// NewActivityService returns the Activity Log service.
func NewActivityService(users ports.UserRepository, activities ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{users: users, activities: activities, log: log, now: time.Now}
}

// Record resolves the actor, copies their current name and email into the
// entry and persists it.
func (s *activityService) Record(ctx context.Context, in ports.RecordActivityInput) (*domain.Activity, error) {
	if !in.Action.IsValid() {
		return nil, domain.Errorf(domain.ErrValidation, "invalid activity action %q", in.Action)
	}
	if !in.Type.IsValid() {
		return nil, domain.Errorf(domain.ErrValidation, "invalid activity type %q", in.Type)
	}

	target := sanitize.Text(in.Target)
	if target == "" {
		return nil, domain.Errorf(domain.ErrValidation, "activity target is required")
	}
	description := sanitize.Text(in.Description)
	if utf8.RuneCountInString(description) > domain.MaxActivityDescription {
		return nil, domain.Errorf(domain.ErrValidation, "description cannot exceed %d characters", domain.MaxActivityDescription)
	}

	actor, err := s.users.FindByID(ctx, in.ActorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("record activity for %q: %w", in.ActorID, domain.ErrActorNotFound)
		}
		return nil, fmt.Errorf("record activity: %w", err)
	}

	metadata := in.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	created, err := s.activities.Insert(ctx, &domain.Activity{
		UserID:      actor.ID,
		UserName:    actor.Name,
		UserEmail:   actor.Email,
		Action:      in.Action,
		Target:      target,
		Type:        in.Type,
		Description: description,
		IPAddress:   in.IPAddress,
		Metadata:    metadata,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}

	s.log.Debug().
		Str("actor", actor.ID).
		Str("action", string(created.Action)).
		Str("target", created.Target).
		Msg("activity recorded")
	return created, nil
}

func (s *activityService) ListForActor(ctx context.Context, actorID, activityType string, limit int64) ([]*domain.Activity, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if activityType != "" && !domain.ActivityType(activityType).IsValid() {
		return nil, domain.Errorf(domain.ErrValidation, "invalid activity type %q", activityType)
	}
	return s.activities.Find(ctx, ports.ActivityFilter{
		UserID: actorID,
		Type:   activityType,
		Limit:  clampLimit(limit, DefaultOwnActivityLimit),
	})
}

// List returns matching activities with the live profile of each actor that
// still exists. The denormalized userName and userEmail are left untouched.
func (s *activityService) List(ctx context.Context, filter ports.ActivityFilter) ([]ports.ActivityEntry, error) {
	if filter.Type != "" && !domain.ActivityType(filter.Type).IsValid() {
		return nil, domain.Errorf(domain.ErrValidation, "invalid activity type %q", filter.Type)
	}
	if filter.Action != "" && !domain.ActivityAction(filter.Action).IsValid() {
		return nil, domain.Errorf(domain.ErrValidation, "invalid activity action %q", filter.Action)
	}
	filter.Limit = clampLimit(filter.Limit, DefaultActivityLimit)

	activities, err := s.activities.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	actors := make(map[string]*ports.ActorInfo)
	entries := make([]ports.ActivityEntry, 0, len(activities))
	for _, a := range activities {
		info, seen := actors[a.UserID]
		if !seen {
			info = s.lookupActor(ctx, a.UserID)
			actors[a.UserID] = info
		}
		entries = append(entries, ports.ActivityEntry{Activity: a, UserInfo: info})
	}
	return entries, nil
}

func (s *activityService) lookupActor(ctx context.Context, id string) *ports.ActorInfo {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Err(err).Str("user_id", id).Msg("failed to load activity actor")
		}
		return nil
	}
	return &ports.ActorInfo{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (s *activityService) Stats(ctx context.Context, filter ports.ActivityStatsFilter) (*domain.ActivityStats, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domain.Errorf(domain.ErrValidation, "startDate must not be after endDate")
	}
	return s.activities.Stats(ctx, filter)
}

func clampLimit(limit, def int64) int64 {
	switch {
	case limit <= 0:
		return def
	case limit > MaxActivityLimit:
		return MaxActivityLimit
	}
	return limit
}
