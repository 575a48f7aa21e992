package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dcode-github/urban_nest/backend/models"
)

// FirstUser returns the earliest registered user.
func (s *Store) FirstUser(ctx context.Context) (*models.User, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetProjection(withoutPassword)

	var user models.User
	if err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{}, opts).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// ReplaceProperties drops every listing and inserts properties in their place.
func (s *Store) ReplaceProperties(ctx context.Context, properties []models.Property) (int, error) {
	coll := s.db.Collection(propertiesCollection)
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, err
	}
	if len(properties) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(properties))
	for i := range properties {
		p := &properties[i]
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		p.Images = nonNil(p.Images)
		p.Features = nonNil(p.Features)
		p.CreatedAt, p.UpdatedAt = now, now
		docs = append(docs, p)
	}

	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

// DestroyListings removes all properties and their reviews.
func (s *Store) DestroyListings(ctx context.Context) error {
	for _, name := range []string{propertiesCollection, reviewsCollection} {
		if _, err := s.db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return err
		}
	}
	return nil
}
