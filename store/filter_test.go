package store

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/urban_nest/backend/models"
)

func TestParsePropertyFilter(t *testing.T) {
	q := url.Values{
		"search":   {" garden "},
		"type":     {"villa"},
		"status":   {"available"},
		"minPrice": {"100"},
		"maxPrice": {"2500.5"},
		"location": {"Austin"},
		"page":     {"2"},
	}
	f, err := ParsePropertyFilter(q)
	require.NoError(t, err)

	assert.Equal(t, "garden", f.Search)
	assert.Equal(t, "villa", f.Type)
	assert.Equal(t, "available", f.Status)
	assert.Equal(t, "Austin", f.Location)
	require.NotNil(t, f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, 100.0, *f.MinPrice)
	assert.Equal(t, 2500.5, *f.MaxPrice)
}

func TestParsePropertyFilterRejectsBadPrice(t *testing.T) {
	_, err := ParsePropertyFilter(url.Values{"minPrice": {"cheap"}})
	assert.EqualError(t, err, `invalid minPrice value "cheap"`)

	_, err = ParsePropertyFilter(url.Values{"maxPrice": {"1e"}})
	assert.Error(t, err)
}

func TestPropertyFilterQuery(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, bson.M{}, PropertyFilter{}.Query())
	})

	t.Run("all clauses", func(t *testing.T) {
		min, max, featured := 10.0, 20.0, true
		owner := primitive.NewObjectID()
		f := PropertyFilter{
			Search:   "pool",
			Type:     "house",
			Status:   "sold",
			MinPrice: &min,
			MaxPrice: &max,
			Location: "St. Louis",
			Featured: &featured,
			Owner:    &owner,
		}

		assert.Equal(t, bson.M{
			"$text":    bson.M{"$search": "pool"},
			"type":     "house",
			"status":   "sold",
			"price":    bson.M{"$gte": 10.0, "$lte": 20.0},
			"location": primitive.Regex{Pattern: `St\. Louis`, Options: "i"},
			"featured": true,
			"owner":    owner,
		}, f.Query())
	})

	t.Run("one sided price", func(t *testing.T) {
		max := 5.0
		assert.Equal(t, bson.M{"price": bson.M{"$lte": 5.0}}, PropertyFilter{MaxPrice: &max}.Query())
	})
}

func TestPropertyFilterKey(t *testing.T) {
	a, err := ParsePropertyFilter(url.Values{"type": {"condo"}, "minPrice": {"100"}})
	require.NoError(t, err)
	b, err := ParsePropertyFilter(url.Values{"minPrice": {"100.0"}, "type": {"condo"}})
	require.NoError(t, err)
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "minPrice=100&type=condo", a.Key())

	b.Limit = 6
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Empty(t, PropertyFilter{}.Key())
}

func TestPropertyUpdate(t *testing.T) {
	title, price, images := "New", 99.0, []string(nil)
	u := PropertyUpdate{Title: &title, Price: &price, Images: &images}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, bson.M{
		"updatedAt": now,
		"title":     "New",
		"price":     99.0,
		"images":    []string{},
	}, u.set(now))

	p := models.Property{Title: "Old", Description: "kept", Price: 1, Images: []string{"a.jpg"}}
	u.Apply(&p, now)
	assert.Equal(t, "New", p.Title)
	assert.Equal(t, "kept", p.Description)
	assert.Equal(t, 99.0, p.Price)
	assert.Equal(t, []string{}, p.Images)
	assert.Equal(t, now, p.UpdatedAt)
}

func TestUserUpdate(t *testing.T) {
	name, exp := "Dana", 4.5
	u := UserUpdate{Name: &name, Experience: &exp, Socials: &models.Socials{LinkedIn: "in/dana"}}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	set := u.set(now)
	assert.Equal(t, "Dana", set["name"])
	assert.Equal(t, 4.5, set["experience"])
	assert.NotContains(t, set, "email")

	user := models.User{Name: "Old", Email: "old@example.com"}
	u.Apply(&user, now)
	assert.Equal(t, "Dana", user.Name)
	assert.Equal(t, "old@example.com", user.Email)
	require.NotNil(t, user.Experience)
	assert.Equal(t, 4.5, *user.Experience)
	require.NotNil(t, user.Socials)
	assert.Equal(t, "in/dana", user.Socials.LinkedIn)
}

func TestPropertyUpdateNormalize(t *testing.T) {
	title, location := "  Loft ", "\tAustin "
	u := PropertyUpdate{Title: &title, Location: &location}
	u.Normalize()

	assert.Equal(t, "Loft", *u.Title)
	assert.Equal(t, "Austin", *u.Location)
	assert.Nil(t, u.Description)
}
