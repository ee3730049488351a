package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository is the Mongo-backed Credential Store.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

var _ ports.UserRepository = (*UserRepository)(nil)

type mongoUser struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Password   string             `bson:"password"`
	Role       string             `bson:"role"`
	Department string             `bson:"department"`
	Status     string             `bson:"status"`
	Avatar     *string            `bson:"avatar"`
	LastLogin  time.Time          `bson:"lastLogin"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		Name:       u.Name,
		Email:      u.Email,
		Password:   u.PasswordHash,
		Role:       string(u.Role),
		Department: u.Department,
		Status:     string(u.Status),
		Avatar:     u.Avatar,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (m mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID.Hex(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.Password,
		Role:         domain.Role(m.Role),
		Department:   m.Department,
		Status:       domain.UserStatus(m.Status),
		Avatar:       m.Avatar,
		LastLogin:    m.LastLogin.UTC(),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns matching users sorted by creation time, newest first.
func (r *UserRepository) List(ctx context.Context, f ports.UserFilter) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Department != "" {
		filter["department"] = f.Department
	}
	if f.Search != "" {
		match := containsFold(f.Search)
		filter["$or"] = bson.A{
			bson.M{"name": match},
			bson.M{"email": match},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	oid, ok := objectID(user.ID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"name":       user.Name,
		"email":      user.Email,
		"password":   user.PasswordHash,
		"role":       string(user.Role),
		"department": user.Department,
		"status":     string(user.Status),
		"avatar":     user.Avatar,
		"updatedAt":  user.UpdatedAt,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoUser
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, domain.ErrUserNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, domain.ErrDuplicateEmail
	case err != nil:
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain(), nil
}

// UpdateLastLogin moves lastLogin forward to ts. An older ts is ignored.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$max": bson.M{"lastLogin": ts}})
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

type userStatsFacet struct {
	Total        []countResult       `bson:"total"`
	Active       []countResult       `bson:"active"`
	Pending      []countResult       `bson:"pending"`
	ByRole       []domain.GroupCount `bson:"byRole"`
	ByDepartment []domain.GroupCount `bson:"byDepartment"`
}

// Stats computes every dashboard counter in a single aggregation.
func (r *UserRepository) Stats(ctx context.Context) (*domain.UserStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	groupBy := func(field string) bson.A {
		return bson.A{
			bson.M{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
			bson.M{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
		}
	}
	countWhere := func(status domain.UserStatus) bson.A {
		return bson.A{
			bson.M{"$match": bson.M{"status": string(status)}},
			bson.M{"$count": "count"},
		}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.M{
			"total":        bson.A{bson.M{"$count": "count"}},
			"active":       countWhere(domain.StatusActive),
			"pending":      countWhere(domain.StatusPending),
			"byRole":       groupBy("role"),
			"byDepartment": groupBy("department"),
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	defer cur.Close(ctx)

	var facets []userStatsFacet
	if err := cur.All(ctx, &facets); err != nil {
		return nil, fmt.Errorf("decode user stats: %w", err)
	}

	stats := &domain.UserStats{ByRole: []domain.GroupCount{}, ByDepartment: []domain.GroupCount{}}
	if len(facets) == 0 {
		return stats, nil
	}
	f := facets[0]
	stats.Total = firstCount(f.Total)
	stats.Active = firstCount(f.Active)
	stats.Pending = firstCount(f.Pending)
	if f.ByRole != nil {
		stats.ByRole = f.ByRole
	}
	if f.ByDepartment != nil {
		stats.ByDepartment = f.ByDepartment
	}
	return stats, nil
}

// EnsureIndexes creates the unique email index and the listing sort index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
