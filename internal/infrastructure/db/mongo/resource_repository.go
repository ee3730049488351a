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

const collectionResources = "resources"

type ResourceRepository struct {
	col *mongo.Collection
}

func NewResourceRepository(db *mongo.Database) *ResourceRepository {
	return &ResourceRepository{col: db.Collection(collectionResources)}
}

var _ ports.ResourceRepository = (*ResourceRepository)(nil)

type mongoResource struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Name         string               `bson:"name"`
	Description  string               `bson:"description,omitempty"`
	Type         string               `bson:"type"`
	Category     string               `bson:"category"`
	Size         string               `bson:"size"`
	URL          string               `bson:"url"`
	FileName     string               `bson:"fileName"`
	ObjectKey    string               `bson:"objectKey,omitempty"`
	AccessLevel  string               `bson:"accessLevel"`
	AllowedUsers []primitive.ObjectID `bson:"allowedUsers"`
	UploadedBy   primitive.ObjectID   `bson:"uploadedBy"`
	Views        int64                `bson:"views"`
	Downloads    int64                `bson:"downloads"`
	Status       string               `bson:"status"`
	Version      string               `bson:"version"`
	Tags         []string             `bson:"tags"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

func (m mongoResource) toDomain() *domain.Resource {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Resource{
		ID:           m.ID.Hex(),
		Name:         m.Name,
		Description:  m.Description,
		Type:         domain.ResourceType(m.Type),
		Category:     m.Category,
		Size:         m.Size,
		URL:          m.URL,
		FileName:     m.FileName,
		ObjectKey:    m.ObjectKey,
		AccessLevel:  domain.AccessLevel(m.AccessLevel),
		AllowedUsers: hexIDs(m.AllowedUsers),
		UploadedBy:   m.UploadedBy.Hex(),
		Views:        m.Views,
		Downloads:    m.Downloads,
		Status:       domain.ResourceStatus(m.Status),
		Version:      m.Version,
		Tags:         tags,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func (r *ResourceRepository) Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	uploader, ok := objectID(res.UploadedBy)
	if !ok {
		return nil, domain.Errorf(domain.ErrValidation, "invalid uploader id %q", res.UploadedBy)
	}
	allowed, ok := objectIDs(res.AllowedUsers)
	if !ok {
		return nil, domain.Errorf(domain.ErrValidation, "allowedUsers must contain valid user ids")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoResource{
		Name:         res.Name,
		Description:  res.Description,
		Type:         string(res.Type),
		Category:     res.Category,
		Size:         res.Size,
		URL:          res.URL,
		FileName:     res.FileName,
		ObjectKey:    res.ObjectKey,
		AccessLevel:  string(res.AccessLevel),
		AllowedUsers: allowed,
		UploadedBy:   uploader,
		Status:       string(res.Status),
		Version:      res.Version,
		Tags:         res.Tags,
		CreatedAt:    res.CreatedAt,
		UpdatedAt:    res.UpdatedAt,
	}

	inserted, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert resource: %w", err)
	}
	oid, ok := inserted.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert resource: unexpected id type %T", inserted.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *ResourceRepository) FindByID(ctx context.Context, id string) (*domain.Resource, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrResourceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoResource
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, fmt.Errorf("find resource: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns matching resources, newest first. Access filtering is left to the caller.
func (r *ResourceRepository) List(ctx context.Context, f ports.ResourceFilter) ([]*domain.Resource, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.Search != "" {
		match := containsFold(f.Search)
		filter["$or"] = bson.A{
			bson.M{"name": match},
			bson.M{"description": match},
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoResource
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode resources: %w", err)
	}

	out := make([]*domain.Resource, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ResourceRepository) Increment(ctx context.Context, id string, counter ports.ResourceCounter) (*domain.Resource, error) {
	if counter != ports.CounterViews && counter != ports.CounterDownloads {
		return nil, fmt.Errorf("increment resource: unknown counter %q", counter)
	}
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrResourceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoResource
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{string(counter): 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, fmt.Errorf("increment resource %s: %w", counter, err)
	}
	return doc.toDomain(), nil
}

func (r *ResourceRepository) SetStatus(ctx context.Context, id string, status domain.ResourceStatus) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrResourceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":    string(status),
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("set resource status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

func (r *ResourceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
