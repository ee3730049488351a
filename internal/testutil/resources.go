package testutil

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
)

// ResourceRepo is a map-backed ports.ResourceRepository.
type ResourceRepo struct {
	mu        sync.Mutex
	resources map[string]*domain.Resource
	order     []string
}

func NewResourceRepo() *ResourceRepo {
	return &ResourceRepo{resources: make(map[string]*domain.Resource)}
}

func cloneResource(r *domain.Resource) *domain.Resource {
	c := *r
	c.AllowedUsers = append([]string(nil), r.AllowedUsers...)
	c.Tags = append([]string(nil), r.Tags...)
	return &c
}

func (r *ResourceRepo) Create(_ context.Context, res *domain.Resource) (*domain.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := cloneResource(res)
	if c.ID == "" {
		c.ID = "resource-" + strconv.Itoa(len(r.order)+1)
	}
	r.resources[c.ID] = c
	r.order = append(r.order, c.ID)
	return cloneResource(c), nil
}

func (r *ResourceRepo) FindByID(_ context.Context, id string) (*domain.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.resources[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	return cloneResource(res), nil
}

func (r *ResourceRepo) List(_ context.Context, f ports.ResourceFilter) ([]*domain.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	search := strings.ToLower(f.Search)
	out := []*domain.Resource{}
	for i := len(r.order) - 1; i >= 0; i-- {
		res := r.resources[r.order[i]]
		if f.Status != "" && res.Status != f.Status {
			continue
		}
		if f.Category != "" && res.Category != f.Category {
			continue
		}
		if f.Type != "" && string(res.Type) != f.Type {
			continue
		}
		if f.Tag != "" && !containsString(res.Tags, f.Tag) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(res.Name), search) &&
			!strings.Contains(strings.ToLower(res.Description), search) {
			continue
		}
		out = append(out, cloneResource(res))
	}
	return out, nil
}

func (r *ResourceRepo) Increment(_ context.Context, id string, counter ports.ResourceCounter) (*domain.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.resources[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	switch counter {
	case ports.CounterViews:
		res.Views++
	case ports.CounterDownloads:
		res.Downloads++
	}
	return cloneResource(res), nil
}

func (r *ResourceRepo) SetStatus(_ context.Context, id string, status domain.ResourceStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.resources[id]
	if !ok {
		return domain.ErrResourceNotFound
	}
	res.Status = status
	res.UpdatedAt = time.Now().UTC()
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
