package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
)

func TestUserService_Update_SelfProfile(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)

	updated, err := f.userSvc.Update(context.Background(), alice, alice.ID(), ports.UpdateUserInput{
		Name:       strPtr("Alice Smith"),
		Email:      strPtr("ALICE.SMITH@example.com"),
		Department: strPtr("Sales"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", updated.Name)
	assert.Equal(t, "alice.smith@example.com", updated.Email)
	assert.Equal(t, "Sales", updated.Department)

	last := f.activityDB.Last()
	require.NotNil(t, last)
	assert.Equal(t, domain.ActionUpdated, last.Action)
	assert.Equal(t, domain.TypeUpdate, last.Type)
	assert.Equal(t, "User: Alice Smith", last.Target)
	assert.Contains(t, last.Description, "(self)")
}

func TestUserService_Update_NonAdminCannotChangeRoleOrStatus(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)
	manager := f.seedUser(t, "Mo", "mo@example.com", domain.RoleManager)

	_, err := f.userSvc.Update(context.Background(), alice, alice.ID(), ports.UpdateUserInput{Role: strPtr("admin")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.userSvc.Update(context.Background(), manager, manager.ID(), ports.UpdateUserInput{Status: strPtr("inactive")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := f.users.FindByID(context.Background(), alice.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, stored.Role)
	assert.Empty(t, f.activityDB.All())
}

func TestUserService_Update_OtherUserRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)
	bob := f.seedUser(t, "Bob", "bob@example.com", domain.RoleManager)

	_, err := f.userSvc.Update(context.Background(), bob, alice.ID(), ports.UpdateUserInput{Name: strPtr("Hacked")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserService_Update_AdminChangesRole(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "Root", "root@example.com", domain.RoleAdmin)
	alice := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)

	updated, err := f.userSvc.Update(context.Background(), admin, alice.ID(), ports.UpdateUserInput{
		Role:   strPtr("manager"),
		Status: strPtr("pending"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, updated.Role)
	assert.Equal(t, domain.StatusPending, updated.Status)

	last := f.activityDB.Last()
	require.NotNil(t, last)
	assert.Equal(t, admin.ID(), last.UserID)
	assert.Contains(t, last.Description, "(by admin)")
	assert.Equal(t, map[string]any{"from": "user", "to": "manager"}, last.Metadata["role_changed"])
}

func TestUserService_Update_NoChangesRecordsEmptyList(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)

	_, err := f.userSvc.Update(context.Background(), alice, alice.ID(), ports.UpdateUserInput{Name: strPtr("Alice")})
	require.NoError(t, err)

	last := f.activityDB.Last()
	require.NotNil(t, last)
	changes, ok := last.Metadata["changes"].([]string)
	require.True(t, ok, "changes should be a string slice, got %#v", last.Metadata["changes"])
	assert.NotNil(t, changes)
	assert.Empty(t, changes)
}

func TestUserService_Update_Validation(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "Root", "root@example.com", domain.RoleAdmin)

	tests := []struct {
		name string
		in   ports.UpdateUserInput
	}{
		{"empty name", ports.UpdateUserInput{Name: strPtr("  ")}},
		{"bad email", ports.UpdateUserInput{Email: strPtr("nope")}},
		{"bad department", ports.UpdateUserInput{Department: strPtr("Space")}},
		{"bad role", ports.UpdateUserInput{Role: strPtr("superuser")}},
		{"bad status", ports.UpdateUserInput{Status: strPtr("banned")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.userSvc.Update(context.Background(), admin, admin.ID(), tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestUserService_Update_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)
	f.seedUser(t, "Bob", "bob@example.com", domain.RoleUser)

	_, err := f.userSvc.Update(context.Background(), alice, alice.ID(), ports.UpdateUserInput{Email: strPtr("Bob@example.com")})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserService_Update_NotFound(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "Root", "root@example.com", domain.RoleAdmin)

	_, err := f.userSvc.Update(context.Background(), admin, "missing", ports.UpdateUserInput{Name: strPtr("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_Delete_Self(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "Root", "root@example.com", domain.RoleAdmin)

	err := f.userSvc.Delete(context.Background(), admin, admin.ID(), "")
	assert.ErrorIs(t, err, domain.ErrSelfDeletion)

	_, err = f.users.FindByID(context.Background(), admin.ID())
	assert.NoError(t, err)
}

func TestUserService_Delete_Other(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "Root", "root@example.com", domain.RoleAdmin)
	alice := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)

	require.NoError(t, f.userSvc.Delete(context.Background(), admin, alice.ID(), ""))

	_, err := f.users.FindByID(context.Background(), alice.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all := f.activityDB.All()
	require.Len(t, all, 1)
	assert.Equal(t, domain.TypeDelete, all[0].Type)
	assert.Equal(t, domain.ActionUserDeleted, all[0].Action)
	assert.Equal(t, admin.ID(), all[0].UserID)
}

func TestUserService_Delete_RequiresAdminAndExistingTarget(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "Root", "root@example.com", domain.RoleAdmin)
	manager := f.seedUser(t, "Mo", "mo@example.com", domain.RoleManager)

	assert.ErrorIs(t, f.userSvc.Delete(context.Background(), manager, admin.ID(), ""), domain.ErrForbidden)
	assert.ErrorIs(t, f.userSvc.Delete(context.Background(), admin, "missing", ""), domain.ErrNotFound)
}

func TestUserService_List(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)
	f.seedUser(t, "Bob", "bob@corp.io", domain.RoleManager)

	users, err := f.userSvc.List(context.Background(), ports.UserFilter{Search: "ALI"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Name)

	users, err = f.userSvc.List(context.Background(), ports.UserFilter{Search: "corp"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Bob", users[0].Name)

	users, err = f.userSvc.List(context.Background(), ports.UserFilter{Role: "manager"})
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = f.userSvc.List(context.Background(), ports.UserFilter{Role: "wizard"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	users, err = f.userSvc.List(context.Background(), ports.UserFilter{Department: "Engineering"})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = f.userSvc.List(context.Background(), ports.UserFilter{Department: "Wizardry"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_Stats(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)
	f.seedUser(t, "Bob", "bob@example.com", domain.RoleUser)
	f.seedUser(t, "Root", "root@example.com", domain.RoleAdmin)

	stats, err := f.userSvc.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 3, stats.Active)
	assert.Contains(t, stats.ByRole, domain.GroupCount{Key: "user", Count: 2})
	assert.Contains(t, stats.ByRole, domain.GroupCount{Key: "admin", Count: 1})
}

func TestUserService_EnsureAdmin(t *testing.T) {
	f := newFixture(t)
	seed := ports.AdminSeed{Email: "Admin@AccessHub.com", Password: "admin123"}

	created, err := f.userSvc.EnsureAdmin(context.Background(), seed)
	require.NoError(t, err)
	assert.Equal(t, "admin@accesshub.com", created.Email)
	assert.Equal(t, domain.RoleAdmin, created.Role)

	again, err := f.userSvc.EnsureAdmin(context.Background(), seed)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}

func TestUserService_EnsureAdmin_PromotesExisting(t *testing.T) {
	f := newFixture(t)
	existing := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)

	got, err := f.userSvc.EnsureAdmin(context.Background(), ports.AdminSeed{Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID(), got.ID)
	assert.Equal(t, domain.RoleAdmin, got.Role)
}
