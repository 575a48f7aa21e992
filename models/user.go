package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAgent = "agent"
	RoleAdmin = "admin"
)

type Socials struct {
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

// User is stored in the users collection. Password holds the bcrypt hash and is only
// decoded by the credential lookups in the store.
type User struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name        string               `bson:"name" json:"name"`
	Email       string               `bson:"email" json:"email"`
	Password    string               `bson:"password,omitempty" json:"-"`
	Role        string               `bson:"role" json:"role"`
	Phone       string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Avatar      string               `bson:"avatar" json:"avatar"`
	GoogleID    string               `bson:"googleId,omitempty" json:"-"`
	Wishlist    []primitive.ObjectID `bson:"wishlist" json:"wishlist"`
	Bio         string               `bson:"bio,omitempty" json:"bio,omitempty"`
	Specialties []string             `bson:"specialties,omitempty" json:"specialties,omitempty"`
	License     string               `bson:"license,omitempty" json:"license,omitempty"`
	Experience  *float64             `bson:"experience,omitempty" json:"experience,omitempty"`
	Location    string               `bson:"location,omitempty" json:"location,omitempty"`
	Socials     *Socials             `bson:"socials,omitempty" json:"socials,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// InWishlist reports whether the property is saved by the user.
func (u *User) InWishlist(propertyID primitive.ObjectID) bool {
	for _, id := range u.Wishlist {
		if id == propertyID {
			return true
		}
	}
	return false
}

// UserSummary is the subset of a user embedded in other documents' responses.
type UserSummary struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	Name   string             `bson:"name" json:"name"`
	Email  string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone  string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Avatar string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}
