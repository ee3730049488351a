package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
)

const testNS = "accesshub.users"

func userDoc(id primitive.ObjectID, email string, role domain.Role) bson.D {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Ada"},
		{Key: "email", Value: email},
		{Key: "password", Value: "$2a$10$hash"},
		{Key: "role", Value: string(role)},
		{Key: "department", Value: "Engineering"},
		{Key: "status", Value: "active"},
		{Key: "avatar", Value: nil},
		{Key: "lastLogin", Value: now},
		{Key: "createdAt", Value: now},
		{Key: "updatedAt", Value: now},
	}
}

func duplicateKey() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error collection: accesshub.users index: email_1",
	})
}

func TestUserRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns an id", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user, err := repo.Create(context.Background(), &domain.User{Name: "Ada", Email: "ada@x.com", Role: domain.RoleUser})
		require.NoError(mt, err)
		assert.Len(mt, user.ID, 24)
		assert.Equal(mt, "ada@x.com", user.Email)
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(duplicateKey())

		_, err := repo.Create(context.Background(), &domain.User{Email: "ada@x.com"})
		assert.ErrorIs(mt, err, domain.ErrDuplicateEmail)
	})
}

func TestUserRepository_FindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, userDoc(id, "ada@x.com", domain.RoleManager)))

		user, err := repo.FindByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), user.ID)
		assert.Equal(mt, domain.RoleManager, user.Role)
		assert.Equal(mt, "$2a$10$hash", user.PasswordHash)
		assert.Nil(mt, user.Avatar)
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("malformed id never reaches the server", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}

		_, err := repo.FindByID(context.Background(), "not-an-id")
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})
}

func TestUserRepository_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes every document", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch,
			userDoc(primitive.NewObjectID(), "a@x.com", domain.RoleUser),
			userDoc(primitive.NewObjectID(), "b@x.com", domain.RoleAdmin),
		))

		users, err := repo.List(context.Background(), ports.UserFilter{Search: "a.b(c"})
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, "b@x.com", users[1].Email)
	})

	mt.Run("empty result is an empty slice", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch))

		users, err := repo.List(context.Background(), ports.UserFilter{})
		require.NoError(mt, err)
		assert.NotNil(mt, users)
		assert.Empty(mt, users)
	})
}

func TestUserRepository_Update(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns the updated document", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: userDoc(id, "new@x.com", domain.RoleManager)}))

		user, err := repo.Update(context.Background(), &domain.User{ID: id.Hex(), Email: "new@x.com", Role: domain.RoleManager})
		require.NoError(mt, err)
		assert.Equal(mt, "new@x.com", user.Email)
		assert.Equal(mt, domain.RoleManager, user.Role)
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "E11000 duplicate key error collection: accesshub.users index: email_1",
		}))

		_, err := repo.Update(context.Background(), &domain.User{ID: primitive.NewObjectID().Hex()})
		assert.ErrorIs(mt, err, domain.ErrDuplicateEmail)
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Update(context.Background(), &domain.User{ID: primitive.NewObjectID().Hex()})
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matched", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}))

		err := repo.UpdateLastLogin(context.Background(), primitive.NewObjectID().Hex(), time.Now())
		assert.NoError(mt, err)
	})

	mt.Run("no such user", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.UpdateLastLogin(context.Background(), primitive.NewObjectID().Hex(), time.Now())
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})
}

func TestUserRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID().Hex()))
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})
}

func TestUserRepository_Stats(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("reads every facet", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		facet := bson.D{
			{Key: "total", Value: bson.A{bson.D{{Key: "count", Value: int64(5)}}}},
			{Key: "active", Value: bson.A{bson.D{{Key: "count", Value: int64(4)}}}},
			{Key: "pending", Value: bson.A{}},
			{Key: "byRole", Value: bson.A{
				bson.D{{Key: "_id", Value: "user"}, {Key: "count", Value: int64(3)}},
				bson.D{{Key: "_id", Value: "admin"}, {Key: "count", Value: int64(2)}},
			}},
			{Key: "byDepartment", Value: bson.A{
				bson.D{{Key: "_id", Value: "Engineering"}, {Key: "count", Value: int64(5)}},
			}},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, facet))

		stats, err := repo.Stats(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, int64(5), stats.Total)
		assert.Equal(mt, int64(4), stats.Active)
		assert.Equal(mt, int64(0), stats.Pending)
		assert.Equal(mt, []domain.GroupCount{{Key: "user", Count: 3}, {Key: "admin", Count: 2}}, stats.ByRole)
		assert.Equal(mt, []domain.GroupCount{{Key: "Engineering", Count: 5}}, stats.ByDepartment)
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, bson.D{
			{Key: "total", Value: bson.A{}},
			{Key: "active", Value: bson.A{}},
			{Key: "pending", Value: bson.A{}},
			{Key: "byRole", Value: bson.A{}},
			{Key: "byDepartment", Value: bson.A{}},
		}))

		stats, err := repo.Stats(context.Background())
		require.NoError(mt, err)
		assert.Zero(mt, stats.Total)
		assert.Empty(mt, stats.ByRole)
		assert.NotNil(mt, stats.ByDepartment)
	})
}
