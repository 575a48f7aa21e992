package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var PropertyTypes = []string{"house", "apartment", "condo", "villa", "land"}

const (
	StatusAvailable = "available"
	StatusPending   = "pending"
	StatusSold      = "sold"

	DefaultPropertyType = "house"
	FeaturedLimit       = 6
)

type Property struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Price         float64            `bson:"price" json:"price"`
	Location      string             `bson:"location" json:"location"`
	Type          string             `bson:"type" json:"type"`
	Status        string             `bson:"status" json:"status"`
	Bedrooms      int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms     int                `bson:"bathrooms" json:"bathrooms"`
	Area          float64            `bson:"area" json:"area"`
	Images        []string           `bson:"images" json:"images"`
	Features      []string           `bson:"features" json:"features"`
	Owner         primitive.ObjectID `bson:"owner" json:"owner"`
	Views         int64              `bson:"views" json:"views"`
	Featured      bool               `bson:"featured" json:"featured"`
	AverageRating float64            `bson:"averageRating" json:"averageRating"`
	NumReviews    int64              `bson:"numReviews" json:"numReviews"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PropertyView is a property with its owner expanded.
type PropertyView struct {
	Property     `bson:",inline"`
	OwnerDetails *UserSummary `bson:"ownerDetails,omitempty"`
}

// MarshalJSON renders owner as the expanded summary, or as the bare id when the owner
// document no longer exists.
func (v PropertyView) MarshalJSON() ([]byte, error) {
	if v.OwnerDetails == nil {
		return json.Marshal(v.Property)
	}
	return json.Marshal(struct {
		Property
		Owner *UserSummary `json:"owner"`
	}{v.Property, v.OwnerDetails})
}

// PropertySummary is the subset of a property embedded in inquiry responses.
type PropertySummary struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	Title  string             `bson:"title" json:"title"`
	Images []string           `bson:"images" json:"images"`
}
