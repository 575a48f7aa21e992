package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dcode-github/urban_nest/backend/models"
)

type PropertyStore interface {
	Create(ctx context.Context, property *models.Property) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error)
	// View increments the view counter and returns the updated listing with its owner.
	View(ctx context.Context, id primitive.ObjectID) (*models.PropertyView, error)
	List(ctx context.Context, filter PropertyFilter) ([]models.PropertyView, error)
	Update(ctx context.Context, id primitive.ObjectID, update PropertyUpdate) (*models.Property, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetRatingStats(ctx context.Context, id primitive.ObjectID, stats models.RatingStats) error
}

type mongoPropertyStore struct {
	coll  *mongo.Collection
	users *mongo.Collection
}

func NewMongoPropertyStore(coll, users *mongo.Collection) PropertyStore {
	return &mongoPropertyStore{coll: coll, users: users}
}

func (s *mongoPropertyStore) Create(ctx context.Context, property *models.Property) error {
	now := time.Now().UTC()
	property.ID = primitive.NewObjectID()
	property.Images = nonNil(property.Images)
	property.Features = nonNil(property.Features)
	property.CreatedAt = now
	property.UpdatedAt = now

	_, err := s.coll.InsertOne(ctx, property)
	return translate(err)
}

func (s *mongoPropertyStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var property models.Property
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&property); err != nil {
		return nil, translate(err)
	}
	return &property, nil
}

func (s *mongoPropertyStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error) {
	properties := []models.Property{}
	if len(ids) == 0 {
		return properties, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (s *mongoPropertyStore) View(ctx context.Context, id primitive.ObjectID) (*models.PropertyView, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var view models.PropertyView
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&view.Property)
	if err != nil {
		return nil, translate(err)
	}

	var owner models.UserSummary
	ownerOpts := options.FindOne().SetProjection(bson.M{"name": 1, "email": 1, "phone": 1})
	switch err := s.users.FindOne(ctx, bson.M{"_id": view.Owner}, ownerOpts).Decode(&owner); {
	case err == nil:
		view.OwnerDetails = &owner
	case translate(err) != ErrNotFound:
		return nil, err
	}
	return &view, nil
}

func (s *mongoPropertyStore) List(ctx context.Context, filter PropertyFilter) ([]models.PropertyView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter.Query()}},
		{{Key: "$sort", Value: newestFirst}},
	}
	if filter.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: filter.Limit}})
	}
	pipeline = append(pipeline, lookupOne(usersCollection, "owner", "ownerDetails", "name", "email")...)

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	views := []models.PropertyView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (s *mongoPropertyStore) Update(ctx context.Context, id primitive.ObjectID, update PropertyUpdate) (*models.Property, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var property models.Property
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": update.set(time.Now().UTC())}, opts).Decode(&property)
	if err != nil {
		return nil, translate(err)
	}
	return &property, nil
}

func (s *mongoPropertyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoPropertyStore) SetRatingStats(ctx context.Context, id primitive.ObjectID, stats models.RatingStats) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"numReviews":    stats.Count,
		"averageRating": stats.Average,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
