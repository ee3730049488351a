package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
)

const collectionActivities = "activities"

// ActivityRepository stores the Activity Log. It only inserts and reads.
type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivities)}
}

var _ ports.ActivityRepository = (*ActivityRepository)(nil)

type mongoActivity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	User        primitive.ObjectID `bson:"user"`
	UserName    string             `bson:"userName"`
	UserEmail   string             `bson:"userEmail"`
	Action      string             `bson:"action"`
	Target      string             `bson:"target"`
	Type        string             `bson:"type"`
	Description string             `bson:"description,omitempty"`
	IPAddress   string             `bson:"ipAddress,omitempty"`
	Metadata    bson.M             `bson:"metadata"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (m mongoActivity) toDomain() *domain.Activity {
	metadata := make(map[string]any, len(m.Metadata))
	for k, v := range m.Metadata {
		metadata[k] = plainValue(v)
	}
	return &domain.Activity{
		ID:          m.ID.Hex(),
		UserID:      m.User.Hex(),
		UserName:    m.UserName,
		UserEmail:   m.UserEmail,
		Action:      domain.ActivityAction(m.Action),
		Target:      m.Target,
		Type:        domain.ActivityType(m.Type),
		Description: m.Description,
		IPAddress:   m.IPAddress,
		Metadata:    metadata,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

// plainValue turns nested documents decoded as primitive.D or primitive.M
// into maps so metadata serializes as ordinary JSON objects.
func plainValue(v any) any {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plainValue(e)
		}
		return m
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	}
	return v
}

func (r *ActivityRepository) Insert(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	user, ok := objectID(a.UserID)
	if !ok {
		return nil, domain.Errorf(domain.ErrValidation, "invalid activity user id %q", a.UserID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoActivity{
		User:        user,
		UserName:    a.UserName,
		UserEmail:   a.UserEmail,
		Action:      string(a.Action),
		Target:      a.Target,
		Type:        string(a.Type),
		Description: a.Description,
		IPAddress:   a.IPAddress,
		Metadata:    bson.M(a.Metadata),
		CreatedAt:   a.CreatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert activity: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

// Find returns matching activities, newest first. An unparseable user id matches nothing.
func (r *ActivityRepository) Find(ctx context.Context, f ports.ActivityFilter) ([]*domain.Activity, error) {
	filter := bson.M{}
	if f.UserID != "" {
		user, ok := objectID(f.UserID)
		if !ok {
			return []*domain.Activity{}, nil
		}
		filter["user"] = user
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Action != "" {
		filter["action"] = f.Action
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find activities: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoActivity
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}

	out := make([]*domain.Activity, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

type activityStatsFacet struct {
	Total  []countResult       `bson:"total"`
	ByType []domain.GroupCount `bson:"byType"`
}

func (r *ActivityRepository) Stats(ctx context.Context, f ports.ActivityStatsFilter) (*domain.ActivityStats, error) {
	match := bson.M{}
	if f.UserID != "" {
		user, ok := objectID(f.UserID)
		if !ok {
			return &domain.ActivityStats{ByType: []domain.GroupCount{}}, nil
		}
		match["user"] = user
	}
	if f.From != nil || f.To != nil {
		created := bson.M{}
		if f.From != nil {
			created["$gte"] = *f.From
		}
		if f.To != nil {
			created["$lte"] = *f.To
		}
		match["createdAt"] = created
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$facet", Value: bson.M{
			"total": bson.A{bson.M{"$count": "count"}},
			"byType": bson.A{
				bson.M{"$group": bson.M{"_id": "$type", "count": bson.M{"$sum": 1}}},
				bson.M{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
			},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("activity stats: %w", err)
	}
	defer cur.Close(ctx)

	var facets []activityStatsFacet
	if err := cur.All(ctx, &facets); err != nil {
		return nil, fmt.Errorf("decode activity stats: %w", err)
	}

	stats := &domain.ActivityStats{ByType: []domain.GroupCount{}}
	if len(facets) == 0 {
		return stats, nil
	}
	stats.Total = firstCount(facets[0].Total)
	if facets[0].ByType != nil {
		stats.ByType = facets[0].ByType
	}
	return stats, nil
}

func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
