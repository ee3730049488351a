package testutil

import (
	"context"
	"strconv"
	"sync"

	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
)

// ActivityRepo is an append-only in-memory ports.ActivityRepository.
type ActivityRepo struct {
	mu      sync.Mutex
	entries []domain.Activity

	// InsertErr, when set, is returned by Insert.
	InsertErr error
}

func NewActivityRepo() *ActivityRepo {
	return &ActivityRepo{}
}

func (r *ActivityRepo) Insert(_ context.Context, a *domain.Activity) (*domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.InsertErr != nil {
		return nil, r.InsertErr
	}
	c := *a
	c.ID = "activity-" + strconv.Itoa(len(r.entries)+1)
	r.entries = append(r.entries, c)
	out := c
	return &out, nil
}

// Find walks the log newest first.
func (r *ActivityRepo) Find(_ context.Context, f ports.ActivityFilter) ([]*domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*domain.Activity{}
	for i := len(r.entries) - 1; i >= 0; i-- {
		a := r.entries[i]
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if f.Type != "" && string(a.Type) != f.Type {
			continue
		}
		if f.Action != "" && string(a.Action) != f.Action {
			continue
		}
		out = append(out, &a)
		if f.Limit > 0 && int64(len(out)) >= f.Limit {
			break
		}
	}
	return out, nil
}

func (r *ActivityRepo) Stats(_ context.Context, f ports.ActivityStatsFilter) (*domain.ActivityStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &domain.ActivityStats{}
	byType := map[string]int64{}
	for _, a := range r.entries {
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if f.From != nil && a.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && a.CreatedAt.After(*f.To) {
			continue
		}
		stats.Total++
		byType[string(a.Type)]++
	}
	stats.ByType = groupCounts(byType)
	return stats, nil
}

// All returns a copy of every stored entry in insertion order.
func (r *ActivityRepo) All() []domain.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Activity(nil), r.entries...)
}

// Last returns the most recent entry or nil.
func (r *ActivityRepo) Last() *domain.Activity {
	all := r.All()
	if len(all) == 0 {
		return nil
	}
	return &all[len(all)-1]
}
