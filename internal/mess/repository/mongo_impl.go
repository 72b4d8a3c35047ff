package repository

import (
	"context"
	"errors"
	"time"

	"kampuskart/internal/mess/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	Messes   *mongo.Collection
	Activity *mongo.Collection
}

func NewMongoRepository(db *mongo.Database, messCollectionName, activityCollectionName string) *MongoRepository {
	return &MongoRepository{
		Messes:   db.Collection(messCollectionName),
		Activity: db.Collection(activityCollectionName),
	}
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	// Search: type + averageRating, ordered by _id
	idxSearch := mongo.IndexModel{
		Keys: bson.D{
			{Key: "type", Value: 1},
			{Key: "averageRating", Value: -1},
			{Key: "_id", Value: 1},
		},
		Options: options.Index().SetName("idx_type_rating"),
	}

	// Unique name per kind
	idxName := mongo.IndexModel{
		Keys: bson.D{
			{Key: "type", Value: 1},
			{Key: "name", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_type_name"),
	}

	// Lookup of a user's subscriptions / ratings across messes
	idxSubUser := mongo.IndexModel{
		Keys:    bson.D{{Key: "subscriptions.userId", Value: 1}},
		Options: options.Index().SetName("idx_subscription_user"),
	}
	idxRatingUser := mongo.IndexModel{
		Keys:    bson.D{{Key: "ratings.userId", Value: 1}},
		Options: options.Index().SetName("idx_rating_user"),
	}

	_, err := r.Messes.Indexes().CreateMany(ctx, []mongo.IndexModel{idxSearch, idxName, idxSubUser, idxRatingUser})
	return err
}

func (r *MongoRepository) CreateMess(ctx context.Context, mess *model.Mess) error {
	now := time.Now()
	if mess.CreatedAt.IsZero() {
		mess.CreatedAt = now
	}
	mess.UpdatedAt = now
	mess.Version = 1

	_, err := r.Messes.InsertOne(ctx, mess)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *MongoRepository) GetMess(ctx context.Context, id string) (*model.Mess, error) {
	var mess model.Mess
	err := r.Messes.FindOne(ctx, bson.M{"_id": id}).Decode(&mess)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &mess, nil
}

func (r *MongoRepository) FindMesses(ctx context.Context, filter model.MessFilter) ([]*model.Mess, error) {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.MinRating > 0 {
		query["averageRating"] = bson.M{"$gte": filter.MinRating}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"subscriptions": 0})

	cursor, err := r.Messes.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []*model.Mess{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *MongoRepository) ReplaceMess(ctx context.Context, mess *model.Mess) error {
	now := time.Now()

	filter := bson.M{
		"_id":     mess.ID,
		"version": mess.Version,
	}
	update := bson.M{
		"$set": bson.M{
			"name":              mess.Name,
			"type":              mess.Type,
			"location":          mess.Location,
			"operatingHours":    mess.OperatingHours,
			"menu":              mess.Menu,
			"subscriptionPlans": mess.SubscriptionPlans,
			"ratings":           mess.Ratings,
			"averageRating":     mess.AverageRating,
			"subscriptions":     mess.Subscriptions,
			"updatedAt":         now,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.Messes.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		count, err := r.Messes.CountDocuments(ctx, bson.M{"_id": mess.ID})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}

	mess.Version++
	mess.UpdatedAt = now
	return nil
}

func (r *MongoRepository) DeleteMess(ctx context.Context, id string) error {
	res, err := r.Messes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) CountMesses(ctx context.Context) (int64, error) {
	return r.Messes.CountDocuments(ctx, bson.M{})
}

func (r *MongoRepository) SetOpenFlags(ctx context.Context, flags map[string]bool) error {
	if len(flags) == 0 {
		return nil
	}

	writeModels := make([]mongo.WriteModel, 0, len(flags))
	for id, open := range flags {
		writeModels = append(writeModels, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{"$set": bson.M{"isOpen": open}}))
	}

	// Ordered: false so one missing mess does not stop the rest
	_, err := r.Messes.BulkWrite(ctx, writeModels, options.BulkWrite().SetOrdered(false))
	return err
}
