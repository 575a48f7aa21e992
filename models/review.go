package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Property  primitive.ObjectID `bson:"property" json:"property"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type ReviewView struct {
	Review      `bson:",inline"`
	UserDetails *UserSummary `bson:"userDetails,omitempty" json:"user,omitempty"`
}

// RatingStats is the aggregate persisted onto a property after its reviews change.
type RatingStats struct {
	Count   int64   `bson:"count" json:"numReviews"`
	Average float64 `bson:"average" json:"averageRating"`
}
