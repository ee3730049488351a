package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
	"github.com/accesshub/accesshub-api/internal/testutil"
)

type fixture struct {
	users      *testutil.UserRepo
	activityDB *testutil.ActivityRepo
	resourceDB *testutil.ResourceRepo
	denylist   *testutil.Denylist

	tokens     *TokenService
	activities ports.ActivityService
	auth       *AuthService
	userSvc    *UserService
}

func newFixture(t *testing.T, opts ...AuthOption) *fixture {
	t.Helper()

	tokens, err := NewTokenService("test-secret", "accesshub")
	require.NoError(t, err)

	f := &fixture{
		users:      testutil.NewUserRepo(),
		activityDB: testutil.NewActivityRepo(),
		resourceDB: testutil.NewResourceRepo(),
		denylist:   testutil.NewDenylist(),
		tokens:     tokens,
	}
	f.activities = NewActivityService(f.users, f.activityDB, zerolog.Nop())
	f.auth = NewAuthService(f.users, tokens, f.activities, zerolog.Nop(), opts...)
	f.userSvc = NewUserService(f.users, f.activities, zerolog.Nop())
	return f
}

// seedUser stores a user directly and returns the identity a fresh token would give it.
func (f *fixture) seedUser(t *testing.T, name, email string, role domain.Role) *domain.Identity {
	t.Helper()

	hash, err := hashPassword("secret1")
	require.NoError(t, err)
	now := time.Now().UTC()
	u, err := f.users.Create(context.Background(), &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   domain.DefaultDepartment,
		Status:       domain.StatusActive,
		LastLogin:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return &domain.Identity{User: u, Role: role}
}

func strPtr(s string) *string { return &s }
