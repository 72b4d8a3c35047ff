package repository

import (
	"context"
	"time"

	"kampuskart/internal/mess/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureActivityIndexes creates indexes for the per-mess activity feed
func (r *MongoRepository) EnsureActivityIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "messId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("idx_mess_created_at"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	}

	_, err := r.Activity.Indexes().CreateMany(ctx, indexes)
	return err
}

// CreateActivity appends a record. Replayed broker messages carry their id, so
// duplicates are ignored.
func (r *MongoRepository) CreateActivity(ctx context.Context, activity *model.MessActivity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	_, err := r.Activity.InsertOne(ctx, activity)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

// FindActivity returns a page of a mess's activity, newest first
func (r *MongoRepository) FindActivity(ctx context.Context, req model.GetActivityReq) ([]*model.MessActivity, int64, error) {
	filter := bson.M{"messId": req.MessID}

	total, err := r.Activity.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := int64((req.Page - 1) * req.Size)
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(req.Size))

	cursor, err := r.Activity.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	results := []*model.MessActivity{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
