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

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindCredentials returns the user including the password hash.
	FindCredentials(ctx context.Context, email string) (*models.User, error)
	FindCredentialsByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, update UserUpdate) (*models.User, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	List(ctx context.Context) ([]models.User, error)
	AddToWishlist(ctx context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error)
	RemoveFromWishlist(ctx context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error)
}

var withoutPassword = bson.M{"password": 0}

type mongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(coll *mongo.Collection) UserStore {
	return &mongoUserStore{coll: coll}
}

func (s *mongoUserStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Wishlist == nil {
		user.Wishlist = []primitive.ObjectID{}
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.coll.InsertOne(ctx, user)
	return translate(err)
}

func (s *mongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id}, withoutPassword)
}

func (s *mongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email}, withoutPassword)
}

func (s *mongoUserStore) FindCredentials(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email}, nil)
}

func (s *mongoUserStore) FindCredentialsByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id}, nil)
}

func (s *mongoUserStore) findOne(ctx context.Context, filter, projection bson.M) (*models.User, error) {
	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}
	var user models.User
	if err := s.coll.FindOne(ctx, filter, opts).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *mongoUserStore) Update(ctx context.Context, id primitive.ObjectID, update UserUpdate) (*models.User, error) {
	return s.findOneAndUpdate(ctx, id, bson.M{"$set": update.set(time.Now().UTC())})
}

func (s *mongoUserStore) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password":  hash,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoUserStore) List(ctx context.Context) ([]models.User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(withoutPassword).SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AddToWishlist appends the property unless it is already saved.
func (s *mongoUserStore) AddToWishlist(ctx context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	user, err := s.findOneAndUpdate(ctx, userID, bson.M{"$addToSet": bson.M{"wishlist": propertyID}})
	if err != nil {
		return nil, err
	}
	return user.Wishlist, nil
}

func (s *mongoUserStore) RemoveFromWishlist(ctx context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	user, err := s.findOneAndUpdate(ctx, userID, bson.M{"$pull": bson.M{"wishlist": propertyID}})
	if err != nil {
		return nil, err
	}
	return user.Wishlist, nil
}

func (s *mongoUserStore) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)

	var user models.User
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user); err != nil {
		return nil, translate(err)
	}
	if user.Wishlist == nil {
		user.Wishlist = []primitive.ObjectID{}
	}
	return &user, nil
}
