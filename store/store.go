// Package store holds the MongoDB repositories. Each repository is exposed through an
// interface so handlers can be exercised against in-memory implementations.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection      = "users"
	propertiesCollection = "properties"
	reviewsCollection    = "reviews"
	inquiriesCollection  = "inquiries"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

type Store struct {
	Users      UserStore
	Properties PropertyStore
	Reviews    ReviewStore
	Inquiries  InquiryStore

	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{
		Users:      NewMongoUserStore(db.Collection(usersCollection)),
		Properties: NewMongoPropertyStore(db.Collection(propertiesCollection), db.Collection(usersCollection)),
		Reviews:    NewMongoReviewStore(db.Collection(reviewsCollection)),
		Inquiries:  NewMongoInquiryStore(db.Collection(inquiriesCollection)),
		db:         db,
	}
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the uniqueness and search indexes the handlers rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		propertiesCollection: {
			{Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "location", Value: "text"},
			}},
			{Keys: bson.D{{Key: "owner", Value: 1}}},
			{Keys: bson.D{{Key: "featured", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		reviewsCollection: {
			{Keys: bson.D{{Key: "property", Value: 1}, {Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		inquiriesCollection: {
			{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "receiver", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for name, models := range specs {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// lookupOne joins a single referenced document projected to fields and unwinds it,
// keeping the parent when the reference dangles.
func lookupOne(from, localField, as string, fields ...string) []bson.D {
	projection := bson.M{}
	for _, f := range fields {
		projection[f] = 1
	}
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   localField,
			"foreignField": "_id",
			"pipeline":     bson.A{bson.M{"$project": projection}},
			"as":           as,
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$" + as,
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}
