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

type InquiryStore interface {
	Create(ctx context.Context, inquiry *models.Inquiry) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error)
	ListBySender(ctx context.Context, sender primitive.ObjectID) ([]models.InquiryView, error)
	ListByReceiver(ctx context.Context, receiver primitive.ObjectID) ([]models.InquiryView, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Inquiry, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoInquiryStore struct {
	coll *mongo.Collection
}

func NewMongoInquiryStore(coll *mongo.Collection) InquiryStore {
	return &mongoInquiryStore{coll: coll}
}

func (s *mongoInquiryStore) Create(ctx context.Context, inquiry *models.Inquiry) error {
	now := time.Now().UTC()
	inquiry.ID = primitive.NewObjectID()
	if inquiry.Status == "" {
		inquiry.Status = models.InquiryPending
	}
	inquiry.CreatedAt = now
	inquiry.UpdatedAt = now

	_, err := s.coll.InsertOne(ctx, inquiry)
	return translate(err)
}

func (s *mongoInquiryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&inquiry); err != nil {
		return nil, translate(err)
	}
	return &inquiry, nil
}

// ListBySender is the outbox: receivers are expanded to name and email.
func (s *mongoInquiryStore) ListBySender(ctx context.Context, sender primitive.ObjectID) ([]models.InquiryView, error) {
	return s.list(ctx, bson.M{"sender": sender},
		[]string{"name", "email"},
		[]string{"name", "email"},
	)
}

// ListByReceiver is the inbox: senders are expanded with their contact details.
func (s *mongoInquiryStore) ListByReceiver(ctx context.Context, receiver primitive.ObjectID) ([]models.InquiryView, error) {
	return s.list(ctx, bson.M{"receiver": receiver},
		[]string{"name", "email", "phone", "avatar"},
		[]string{"name", "email"},
	)
}

func (s *mongoInquiryStore) list(ctx context.Context, match bson.M, senderFields, receiverFields []string) ([]models.InquiryView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: newestFirst}},
	}
	pipeline = append(pipeline, lookupOne(propertiesCollection, "property", "propertyDetails", "title", "images")...)
	pipeline = append(pipeline, lookupOne(usersCollection, "sender", "senderDetails", senderFields...)...)
	pipeline = append(pipeline, lookupOne(usersCollection, "receiver", "receiverDetails", receiverFields...)...)

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	inquiries := []models.InquiryView{}
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (s *mongoInquiryStore) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Inquiry, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}

	var inquiry models.Inquiry
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&inquiry); err != nil {
		return nil, translate(err)
	}
	return &inquiry, nil
}

func (s *mongoInquiryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
