package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
)

func TestActivityService_Record_DenormalizesActor(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)

	a, err := f.activities.Record(context.Background(), ports.RecordActivityInput{
		ActorID:     alice.ID(),
		Action:      domain.ActionCommented,
		Target:      "Report <b>Q1</b>",
		Type:        domain.TypeEvent,
		Description: "left a note",
		Metadata:    map[string]any{"k": "v"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "Alice", a.UserName)
	assert.Equal(t, "alice@example.com", a.UserEmail)
	assert.Equal(t, "Report Q1", a.Target)
	assert.False(t, a.CreatedAt.IsZero())

	renamed := *alice.User
	renamed.Name = "Alice Renamed"
	f.users.Put(&renamed)

	entries, err := f.activities.ListForActor(context.Background(), alice.ID(), "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Alice", entries[0].UserName)
}

func TestActivityService_Record_UnknownActor(t *testing.T) {
	f := newFixture(t)

	_, err := f.activities.Record(context.Background(), ports.RecordActivityInput{
		ActorID: "ghost",
		Action:  domain.ActionLogin,
		Target:  "System",
		Type:    domain.TypeEvent,
	})
	assert.ErrorIs(t, err, domain.ErrActorNotFound)
	assert.Empty(t, f.activityDB.All())
}

func TestActivityService_Record_Validation(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)

	base := ports.RecordActivityInput{ActorID: alice.ID(), Action: domain.ActionLogin, Target: "System", Type: domain.TypeEvent}

	badAction := base
	badAction.Action = "exploded"
	badType := base
	badType.Type = "weird"
	noTarget := base
	noTarget.Target = " "
	longDesc := base
	longDesc.Description = strings.Repeat("x", domain.MaxActivityDescription+1)

	for name, in := range map[string]ports.RecordActivityInput{
		"action": badAction, "type": badType, "target": noTarget, "description": longDesc,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.activities.Record(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestActivityService_ListForActor_LimitsAndFilters(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)
	bob := f.seedUser(t, "Bob", "bob@example.com", domain.RoleUser)

	for i := 0; i < 60; i++ {
		_, err := f.activities.Record(context.Background(), ports.RecordActivityInput{
			ActorID: alice.ID(), Action: domain.ActionViewed, Target: "Doc", Type: domain.TypeView,
		})
		require.NoError(t, err)
	}
	_, err := f.activities.Record(context.Background(), ports.RecordActivityInput{
		ActorID: alice.ID(), Action: domain.ActionLogin, Target: "System", Type: domain.TypeEvent,
	})
	require.NoError(t, err)
	_, err = f.activities.Record(context.Background(), ports.RecordActivityInput{
		ActorID: bob.ID(), Action: domain.ActionLogin, Target: "System", Type: domain.TypeEvent,
	})
	require.NoError(t, err)

	mine, err := f.activities.ListForActor(context.Background(), alice.ID(), "", 0)
	require.NoError(t, err)
	assert.Len(t, mine, DefaultOwnActivityLimit)
	assert.Equal(t, domain.ActionLogin, mine[0].Action)
	for _, a := range mine {
		assert.Equal(t, alice.ID(), a.UserID)
	}

	events, err := f.activities.ListForActor(context.Background(), alice.ID(), "event", 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	_, err = f.activities.ListForActor(context.Background(), alice.ID(), "bogus", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestActivityService_List_PopulatesLiveActor(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)
	bob := f.seedUser(t, "Bob", "bob@example.com", domain.RoleUser)

	for _, id := range []string{alice.ID(), bob.ID()} {
		_, err := f.activities.Record(context.Background(), ports.RecordActivityInput{
			ActorID: id, Action: domain.ActionLogin, Target: "System", Type: domain.TypeEvent,
		})
		require.NoError(t, err)
	}
	require.NoError(t, f.users.Delete(context.Background(), bob.ID()))

	entries, err := f.activities.List(context.Background(), ports.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, bob.ID(), entries[0].UserID)
	assert.Nil(t, entries[0].UserInfo)
	assert.Equal(t, "Bob", entries[0].UserName)

	require.NotNil(t, entries[1].UserInfo)
	assert.Equal(t, domain.RoleUser, entries[1].UserInfo.Role)

	filtered, err := f.activities.List(context.Background(), ports.ActivityFilter{UserID: alice.ID(), Action: "login"})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	_, err = f.activities.List(context.Background(), ports.ActivityFilter{Action: "nope"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestActivityService_Stats(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "Alice", "alice@example.com", domain.RoleUser)

	for _, typ := range []domain.ActivityType{domain.TypeEvent, domain.TypeEvent, domain.TypeView} {
		_, err := f.activities.Record(context.Background(), ports.RecordActivityInput{
			ActorID: alice.ID(), Action: domain.ActionViewed, Target: "Doc", Type: typ,
		})
		require.NoError(t, err)
	}

	stats, err := f.activities.Stats(context.Background(), ports.ActivityStatsFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.Contains(t, stats.ByType, domain.GroupCount{Key: "event", Count: 2})

	future := time.Now().Add(time.Hour)
	stats, err = f.activities.Stats(context.Background(), ports.ActivityStatsFilter{From: &future})
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.Total)

	past := time.Now().Add(-time.Hour)
	_, err = f.activities.Stats(context.Background(), ports.ActivityStatsFilter{From: &future, To: &past})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestClampLimit(t *testing.T) {
	assert.EqualValues(t, 100, clampLimit(0, 100))
	assert.EqualValues(t, 100, clampLimit(-5, 100))
	assert.EqualValues(t, 7, clampLimit(7, 100))
	assert.EqualValues(t, MaxActivityLimit, clampLimit(10000, 100))
}
