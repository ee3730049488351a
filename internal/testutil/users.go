// Package testutil provides in-memory implementations of the repository
// ports for service, handler and router tests.
package testutil

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
)

// UserRepo is a map-backed ports.UserRepository.
type UserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int

	// FindErr, when set, is returned by FindByID and FindByEmail.
	FindErr error
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *UserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = "user-" + strconv.Itoa(r.nextID)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FindErr != nil {
		return nil, r.FindErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FindErr != nil {
		return nil, r.FindErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepo) List(_ context.Context, f ports.UserFilter) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	search := strings.ToLower(f.Search)
	out := []*domain.User{}
	for _, u := range r.users {
		if f.Role != "" && string(u.Role) != f.Role {
			continue
		}
		if f.Status != "" && string(u.Status) != f.Status {
			continue
		}
		if f.Department != "" && u.Department != f.Department {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for _, u := range r.users {
		if u.ID != user.ID && u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	c := cloneUser(user)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *UserRepo) UpdateLastLogin(_ context.Context, id string, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLogin = ts
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *UserRepo) Stats(_ context.Context) (*domain.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &domain.UserStats{}
	byRole := map[string]int64{}
	byDept := map[string]int64{}
	for _, u := range r.users {
		stats.Total++
		switch u.Status {
		case domain.StatusActive:
			stats.Active++
		case domain.StatusPending:
			stats.Pending++
		}
		byRole[string(u.Role)]++
		byDept[u.Department]++
	}
	stats.ByRole = groupCounts(byRole)
	stats.ByDepartment = groupCounts(byDept)
	return stats, nil
}

// Put stores a user as-is, overwriting any record with the same ID.
func (r *UserRepo) Put(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = cloneUser(user)
}

func groupCounts(m map[string]int64) []domain.GroupCount {
	out := make([]domain.GroupCount, 0, len(m))
	for k, v := range m {
		out = append(out, domain.GroupCount{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
