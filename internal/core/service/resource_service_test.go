package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
	"github.com/accesshub/accesshub-api/internal/testutil"
)

func newResourceInput(name string, level domain.AccessLevel) ports.CreateResourceInput {
	return ports.CreateResourceInput{
		Name:        name,
		Type:        "pdf",
		Category:    "Documentation",
		Size:        "1.2 MB",
		URL:         "https://files.example.com/" + name + ".pdf",
		FileName:    name + ".pdf",
		AccessLevel: string(level),
		Tags:        []string{"Q1", " Onboarding "},
	}
}

func TestResourceService_CreateAndList(t *testing.T) {
	f := newFixture(t)
	svc := NewResourceService(f.resourceDB, f.activities, nil, zerolog.Nop())
	manager := f.seedUser(t, "Mo", "mo@example.com", domain.RoleManager)
	user := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)

	pub, err := svc.Create(context.Background(), manager, newResourceInput("handbook", domain.AccessPublic))
	require.NoError(t, err)
	assert.Equal(t, manager.ID(), pub.UploadedBy)
	assert.Equal(t, "1.0", pub.Version)
	assert.Equal(t, []string{"q1", "onboarding"}, pub.Tags)
	assert.Equal(t, domain.ActionCreated, f.activityDB.Last().Action)

	_, err = svc.Create(context.Background(), manager, newResourceInput("budget", domain.AccessManager))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), manager, newResourceInput("guide", ""))
	require.NoError(t, err)

	anon, err := svc.List(context.Background(), nil, ports.ResourceFilter{})
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.Equal(t, "handbook", anon[0].Name)

	forUser, err := svc.List(context.Background(), user, ports.ResourceFilter{})
	require.NoError(t, err)
	assert.Len(t, forUser, 2)

	forManager, err := svc.List(context.Background(), manager, ports.ResourceFilter{Tag: "Q1"})
	require.NoError(t, err)
	assert.Len(t, forManager, 3)

	_, err = svc.List(context.Background(), manager, ports.ResourceFilter{Type: "exe"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestResourceService_Create_Authorization(t *testing.T) {
	f := newFixture(t)
	svc := NewResourceService(f.resourceDB, f.activities, nil, zerolog.Nop())
	user := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)

	_, err := svc.Create(context.Background(), user, newResourceInput("doc", domain.AccessUser))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Create(context.Background(), nil, newResourceInput("doc", domain.AccessUser))
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestResourceService_Create_Validation(t *testing.T) {
	f := newFixture(t)
	svc := NewResourceService(f.resourceDB, f.activities, nil, zerolog.Nop())
	admin := f.seedUser(t, "Root", "root@example.com", domain.RoleAdmin)

	in := newResourceInput("doc", domain.AccessUser)
	in.Category = "Astrology"
	_, err := svc.Create(context.Background(), admin, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = newResourceInput("doc", "secret")
	_, err = svc.Create(context.Background(), admin, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = newResourceInput("doc", domain.AccessUser)
	in.URL = "not a url"
	_, err = svc.Create(context.Background(), admin, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestResourceService_View(t *testing.T) {
	f := newFixture(t)
	svc := NewResourceService(f.resourceDB, f.activities, nil, zerolog.Nop())
	admin := f.seedUser(t, "Root", "root@example.com", domain.RoleAdmin)
	user := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)

	secret, err := svc.Create(context.Background(), admin, newResourceInput("payroll", domain.AccessAdmin))
	require.NoError(t, err)
	open, err := svc.Create(context.Background(), admin, newResourceInput("faq", domain.AccessUser))
	require.NoError(t, err)

	_, err = svc.View(context.Background(), user, secret.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	viewed, err := svc.View(context.Background(), user, open.ID, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, viewed.Views)

	last := f.activityDB.Last()
	assert.Equal(t, domain.ActionViewed, last.Action)
	assert.Equal(t, domain.TypeView, last.Type)
	assert.Equal(t, user.ID(), last.UserID)

	_, err = svc.View(context.Background(), user, "missing", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResourceService_AllowedUsers(t *testing.T) {
	f := newFixture(t)
	svc := NewResourceService(f.resourceDB, f.activities, nil, zerolog.Nop())
	admin := f.seedUser(t, "Root", "root@example.com", domain.RoleAdmin)
	alice := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)
	bob := f.seedUser(t, "Bob", "bob@example.com", domain.RoleUser)

	in := newResourceInput("private", domain.AccessUser)
	in.AllowedUsers = []string{alice.ID()}
	res, err := svc.Create(context.Background(), admin, in)
	require.NoError(t, err)

	_, err = svc.View(context.Background(), alice, res.ID, "")
	assert.NoError(t, err)
	_, err = svc.View(context.Background(), bob, res.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestResourceService_Download(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "Root", "root@example.com", domain.RoleAdmin)

	plain := NewResourceService(f.resourceDB, f.activities, nil, zerolog.Nop())
	res, err := plain.Create(context.Background(), admin, newResourceInput("faq", domain.AccessUser))
	require.NoError(t, err)

	link, err := plain.Download(context.Background(), admin, res.ID, "")
	require.NoError(t, err)
	assert.Equal(t, res.URL, link)

	in := newResourceInput("video", domain.AccessUser)
	in.ObjectKey = "videos/intro.mp4"
	stored, err := plain.Create(context.Background(), admin, in)
	require.NoError(t, err)

	presigned := NewResourceService(f.resourceDB, f.activities, testutil.Storage{}, zerolog.Nop())
	link, err = presigned.Download(context.Background(), admin, stored.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/videos/intro.mp4?name=video.pdf", link)

	updated, err := f.resourceDB.FindByID(context.Background(), stored.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated.Downloads)
	assert.Equal(t, domain.ActionDownloaded, f.activityDB.Last().Action)

	failing := NewResourceService(f.resourceDB, f.activities, testutil.Storage{Err: testutil.ErrStubFailure}, zerolog.Nop())
	_, err = failing.Download(context.Background(), admin, stored.ID, "")
	assert.ErrorIs(t, err, testutil.ErrStubFailure)
}

func TestResourceService_Delete(t *testing.T) {
	f := newFixture(t)
	svc := NewResourceService(f.resourceDB, f.activities, nil, zerolog.Nop())
	admin := f.seedUser(t, "Root", "root@example.com", domain.RoleAdmin)
	manager := f.seedUser(t, "Mo", "mo@example.com", domain.RoleManager)

	res, err := svc.Create(context.Background(), manager, newResourceInput("old", domain.AccessUser))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), manager, res.ID, ""), domain.ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), admin, res.ID, ""))
	assert.Equal(t, domain.TypeDelete, f.activityDB.Last().Type)

	_, err = svc.View(context.Background(), admin, res.ID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), admin, res.ID, ""), domain.ErrNotFound)

	listed, err := svc.List(context.Background(), admin, ports.ResourceFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}
