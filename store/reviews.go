package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dcode-github/urban_nest/backend/models"
)

type ReviewStore interface {
	// Create fails with ErrDuplicate when the user already reviewed the property.
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.ReviewView, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByProperty(ctx context.Context, propertyID primitive.ObjectID) error
	Stats(ctx context.Context, propertyID primitive.ObjectID) (models.RatingStats, error)
}

type mongoReviewStore struct {
	coll *mongo.Collection
}

func NewMongoReviewStore(coll *mongo.Collection) ReviewStore {
	return &mongoReviewStore{coll: coll}
}

func (s *mongoReviewStore) Create(ctx context.Context, review *models.Review) error {
	now := time.Now().UTC()
	review.ID = primitive.NewObjectID()
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err := s.coll.InsertOne(ctx, review)
	return translate(err)
}

func (s *mongoReviewStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (s *mongoReviewStore) ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.ReviewView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"property": propertyID}}},
		{{Key: "$sort", Value: newestFirst}},
	}
	pipeline = append(pipeline, lookupOne(usersCollection, "user", "userDetails", "name", "avatar")...)

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []models.ReviewView{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *mongoReviewStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoReviewStore) DeleteByProperty(ctx context.Context, propertyID primitive.ObjectID) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"property": propertyID})
	return err
}

// Stats counts the property's reviews and averages their ratings. A property with no
// reviews yields the zero value.
func (s *mongoReviewStore) Stats(ctx context.Context, propertyID primitive.ObjectID) (models.RatingStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"property": propertyID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$property",
			"count":   bson.M{"$sum": 1},
			"average": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.RatingStats{}, err
	}
	defer cursor.Close(ctx)

	var stats models.RatingStats
	if cursor.Next(ctx) {
		if err := cursor.Decode(&stats); err != nil {
			return models.RatingStats{}, err
		}
	}
	return stats, cursor.Err()
}
