package store

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/dcode-github/urban_nest/backend/models"
)

// PropertyUpdate is a partial listing update. Nil fields are left untouched; owner,
// views and the rating aggregates cannot be written through it.
type PropertyUpdate struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description" validate:"omitempty,min=1,max=2000"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Location    *string   `json:"location" validate:"omitempty,min=1"`
	Type        *string   `json:"type" validate:"omitempty,oneof=house apartment condo villa land"`
	Status      *string   `json:"status" validate:"omitempty,oneof=available pending sold"`
	Bedrooms    *int      `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms   *int      `json:"bathrooms" validate:"omitempty,gte=0"`
	Area        *float64  `json:"area" validate:"omitempty,gte=0"`
	Images      *[]string `json:"images"`
	Features    *[]string `json:"features"`
	Featured    *bool     `json:"featured"`
}

// Normalize trims the free text fields before they are validated.
func (u *PropertyUpdate) Normalize() {
	trimString(u.Title)
	trimString(u.Description)
	trimString(u.Location)
}

func (u PropertyUpdate) set(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	putString(set, "title", u.Title)
	putString(set, "description", u.Description)
	putString(set, "location", u.Location)
	putString(set, "type", u.Type)
	putString(set, "status", u.Status)
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Bedrooms != nil {
		set["bedrooms"] = *u.Bedrooms
	}
	if u.Bathrooms != nil {
		set["bathrooms"] = *u.Bathrooms
	}
	if u.Area != nil {
		set["area"] = *u.Area
	}
	if u.Images != nil {
		set["images"] = nonNil(*u.Images)
	}
	if u.Features != nil {
		set["features"] = nonNil(*u.Features)
	}
	if u.Featured != nil {
		set["featured"] = *u.Featured
	}
	return set
}

// Apply writes the update onto an in-memory property.
func (u PropertyUpdate) Apply(p *models.Property, now time.Time) {
	applyString(&p.Title, u.Title)
	applyString(&p.Description, u.Description)
	applyString(&p.Location, u.Location)
	applyString(&p.Type, u.Type)
	applyString(&p.Status, u.Status)
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Bedrooms != nil {
		p.Bedrooms = *u.Bedrooms
	}
	if u.Bathrooms != nil {
		p.Bathrooms = *u.Bathrooms
	}
	if u.Area != nil {
		p.Area = *u.Area
	}
	if u.Images != nil {
		p.Images = nonNil(*u.Images)
	}
	if u.Features != nil {
		p.Features = nonNil(*u.Features)
	}
	if u.Featured != nil {
		p.Featured = *u.Featured
	}
	p.UpdatedAt = now
}

// UserUpdate is a partial profile update. Email must already be normalized.
type UserUpdate struct {
	Name        *string
	Email       *string
	Phone       *string
	Avatar      *string
	Bio         *string
	Specialties *[]string
	License     *string
	Experience  *float64
	Location    *string
	Socials     *models.Socials
	GoogleID    *string
}

func (u UserUpdate) set(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	putString(set, "name", u.Name)
	putString(set, "email", u.Email)
	putString(set, "phone", u.Phone)
	putString(set, "avatar", u.Avatar)
	putString(set, "bio", u.Bio)
	putString(set, "license", u.License)
	putString(set, "location", u.Location)
	putString(set, "googleId", u.GoogleID)
	if u.Specialties != nil {
		set["specialties"] = nonNil(*u.Specialties)
	}
	if u.Experience != nil {
		set["experience"] = *u.Experience
	}
	if u.Socials != nil {
		set["socials"] = *u.Socials
	}
	return set
}

// Apply writes the update onto an in-memory user.
func (u UserUpdate) Apply(user *models.User, now time.Time) {
	applyString(&user.Name, u.Name)
	applyString(&user.Email, u.Email)
	applyString(&user.Phone, u.Phone)
	applyString(&user.Avatar, u.Avatar)
	applyString(&user.Bio, u.Bio)
	applyString(&user.License, u.License)
	applyString(&user.Location, u.Location)
	applyString(&user.GoogleID, u.GoogleID)
	if u.Specialties != nil {
		user.Specialties = nonNil(*u.Specialties)
	}
	if u.Experience != nil {
		v := *u.Experience
		user.Experience = &v
	}
	if u.Socials != nil {
		s := *u.Socials
		user.Socials = &s
	}
	user.UpdatedAt = now
}

func putString(set bson.M, key string, v *string) {
	if v != nil {
		set[key] = *v
	}
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func trimString(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
