package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/urban_nest/backend/models"
)

func TestCreateProperty(t *testing.T) {
	h := newHarness(t)
	owner, token := h.createUser("Ana", "ana@example.com", "agent")

	body := listing("  Sunny house  ", 200000, "")
	body["images"] = []string{"a.jpg"}
	p := h.createProperty(token, body)

	assert.Equal(t, "Sunny house", p.Title)
	assert.Equal(t, "house", p.Type)
	assert.Equal(t, "available", p.Status)
	assert.Equal(t, []string{"a.jpg"}, p.Images)
	assert.Equal(t, int64(0), p.Views)
	assert.JSONEq(t, `"`+owner.ID.Hex()+`"`, string(p.Owner))
	assert.Equal(t, 1, h.cache.invalidated)
}

func TestCreatePropertyValidation(t *testing.T) {
	h := newHarness(t)
	_, token := h.createUser("Ana", "ana@example.com", "agent")

	negative := listing("Shack", -5, "house")
	badType := listing("Castle", 10, "castle")
	noTitle := listing("   ", 10, "house")
	noPrice := listing("Free", 0, "house")
	delete(noPrice, "price")

	tests := []struct {
		name    string
		body    interface{}
		message string
	}{
		{"negative price", negative, "price cannot be less than 0"},
		{"unknown type", badType, "type must be one of: house, apartment, condo, villa, land"},
		{"blank title", noTitle, "Please provide title"},
		{"missing price", noPrice, "Please provide price"},
		{"malformed json", `{"title":`, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(http.MethodPost, "/api/properties", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, message(t, rec))
		})
	}

	rec := h.do(http.MethodPost, "/api/properties", listing("Loft", 1, "condo"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetProperties(t *testing.T) {
	h := newHarness(t)
	_, token := h.createUser("Ana", "ana@example.com", "agent")

	house := h.createProperty(token, listing("Family house", 200000, "house"))
	h.createProperty(token, listing("Big house", 450000, "house"))
	pricey := listing("City condo", 250000, "condo")
	pricey["location"] = "Miami Beach, FL"
	h.createProperty(token, pricey)

	get := func(query string) []propertyJSON {
		t.Helper()
		rec := h.do(http.MethodGet, "/api/properties"+query, nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out []propertyJSON
		decode(t, rec, &out)
		return out
	}

	all := get("")
	require.Len(t, all, 3)
	assert.Equal(t, "City condo", all[0].Title, "newest first")

	var owner userSummaryJSON
	require.NoError(t, json.Unmarshal(all[0].Owner, &owner))
	assert.Equal(t, "Ana", owner.Name)
	assert.Equal(t, "ana@example.com", owner.Email)

	matched := get("?type=house&maxPrice=300000")
	require.Len(t, matched, 1)
	assert.Equal(t, house.ID, matched[0].ID)

	assert.Len(t, get("?minPrice=250000&maxPrice=450000"), 2)
	assert.Len(t, get("?location=miami"), 1)
	assert.Len(t, get("?location=.*"), 0)
	assert.Len(t, get("?search=family"), 1)
	assert.Len(t, get("?status=sold"), 0)

	rec := h.do(http.MethodGet, "/api/properties?minPrice=cheap", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `invalid minPrice value "cheap"`, message(t, rec))
}

func TestGetPropertiesCache(t *testing.T) {
	h := newHarness(t)
	_, token := h.createUser("Ana", "ana@example.com", "agent")
	h.createProperty(token, listing("Loft", 1000, "condo"))

	first := h.do(http.MethodGet, "/api/properties?type=condo", nil, "")
	require.Equal(t, http.StatusOK, first.Code)
	second := h.do(http.MethodGet, "/api/properties?type=condo", nil, "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, h.cache.hits)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))

	// A write drops cached listings so the next read sees it.
	h.createProperty(token, listing("Studio", 900, "condo"))
	rec := h.do(http.MethodGet, "/api/properties?type=condo", nil, "")
	var out []propertyJSON
	decode(t, rec, &out)
	assert.Len(t, out, 2)
	assert.Equal(t, 1, h.cache.hits)
}

func TestCachedListingKeepsViewCount(t *testing.T) {
	h := newHarness(t)
	_, token := h.createUser("Ana", "ana@example.com", "agent")
	p := h.createProperty(token, listing("Loft", 1000, "condo"))

	list := func() propertyJSON {
		rec := h.do(http.MethodGet, "/api/properties", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var out []propertyJSON
		decode(t, rec, &out)
		require.Len(t, out, 1)
		return out[0]
	}

	assert.Equal(t, int64(0), list().Views)
	invalidated := h.cache.invalidated

	rec := h.do(http.MethodGet, "/api/properties/"+p.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail propertyJSON
	decode(t, rec, &detail)
	assert.Equal(t, int64(1), detail.Views)
	assert.Equal(t, invalidated, h.cache.invalidated, "views leave the cache alone")

	assert.Equal(t, int64(0), list().Views)
	assert.Equal(t, 1, h.cache.hits)

	h.cache.Invalidate(context.Background())
	assert.Equal(t, int64(1), list().Views)
}

func TestGetPropertyByIDIncrementsViews(t *testing.T) {
	h := newHarness(t)
	_, token := h.createUser("Ana", "ana@example.com", "agent")
	p := h.createProperty(token, listing("Loft", 1000, "condo"))

	for want := int64(1); want <= 3; want++ {
		rec := h.do(http.MethodGet, "/api/properties/"+p.ID, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var got propertyJSON
		decode(t, rec, &got)
		assert.Equal(t, want, got.Views)

		var owner userSummaryJSON
		require.NoError(t, json.Unmarshal(got.Owner, &owner))
		assert.Equal(t, "Ana", owner.Name)
	}

	for _, id := range []string{primitive.NewObjectID().Hex(), "not-an-id"} {
		rec := h.do(http.MethodGet, "/api/properties/"+id, nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Property not found", message(t, rec))
	}
}

func TestFeaturedProperties(t *testing.T) {
	h := newHarness(t)
	_, token := h.createUser("Ana", "ana@example.com", "agent")

	for i := 0; i < 8; i++ {
		body := listing("Featured", float64(1000+i), "villa")
		body["featured"] = true
		h.createProperty(token, body)
	}
	h.createProperty(token, listing("Plain", 10, "land"))

	rec := h.do(http.MethodGet, "/api/properties/featured", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out []propertyJSON
	decode(t, rec, &out)
	require.Len(t, out, models.FeaturedLimit)
	for _, p := range out {
		assert.True(t, p.Featured)
	}
	assert.Equal(t, 1007.0, out[0].Price, "newest first")
}

func TestGetUserProperties(t *testing.T) {
	h := newHarness(t)
	_, ana := h.createUser("Ana", "ana@example.com", "agent")
	_, bo := h.createUser("Bo", "bo@example.com", "agent")

	h.createProperty(ana, listing("Ana one", 1, "house"))
	h.createProperty(ana, listing("Ana two", 2, "house"))
	h.createProperty(bo, listing("Bo one", 3, "house"))

	rec := h.do(http.MethodGet, "/api/properties/user/my-properties", nil, ana)
	require.Equal(t, http.StatusOK, rec.Code)
	var out []propertyJSON
	decode(t, rec, &out)
	require.Len(t, out, 2)
	assert.Equal(t, "Ana two", out[0].Title)

	rec = h.do(http.MethodGet, "/api/properties/user/my-properties", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProperty(t *testing.T) {
	h := newHarness(t)
	_, owner := h.createUser("Ana", "ana@example.com", "agent")
	_, other := h.createUser("Bo", "bo@example.com", "user")
	_, admin := h.createUser("Root", "root@example.com", "admin")
	p := h.createProperty(owner, listing("Loft", 1000, "condo"))
	path := "/api/properties/" + p.ID

	rec := h.do(http.MethodPut, path, map[string]interface{}{"price": 1}, other)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized to update this property", message(t, rec))

	rec = h.do(http.MethodPut, path, map[string]interface{}{"price": -5}, owner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPut, path, map[string]interface{}{"title": "   "}, owner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide title", message(t, rec))

	rec = h.do(http.MethodPut, path, `{"title":`, owner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", message(t, rec))

	rec = h.do(http.MethodPut, path, map[string]interface{}{"status": "sold", "price": 1200, "views": 999}, owner)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got propertyJSON
	decode(t, rec, &got)
	assert.Equal(t, "sold", got.Status)
	assert.Equal(t, 1200.0, got.Price)
	assert.Equal(t, "Loft", got.Title)
	assert.Equal(t, int64(0), got.Views)

	rec = h.do(http.MethodPut, path, map[string]interface{}{"featured": true}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &got)
	assert.True(t, got.Featured)

	rec = h.do(http.MethodPut, "/api/properties/"+primitive.NewObjectID().Hex(), map[string]interface{}{"price": 1}, owner)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProperty(t *testing.T) {
	h := newHarness(t)
	_, owner := h.createUser("Ana", "ana@example.com", "agent")
	_, other := h.createUser("Bo", "bo@example.com", "user")
	_, admin := h.createUser("Root", "root@example.com", "admin")

	p := h.createProperty(owner, listing("Loft", 1000, "condo"))
	rec := h.do(http.MethodPost, "/api/properties/"+p.ID+"/reviews", map[string]interface{}{"rating": 4, "comment": "Nice"}, other)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(http.MethodDelete, "/api/properties/"+p.ID, nil, other)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized to delete this property", message(t, rec))

	rec = h.do(http.MethodDelete, "/api/properties/"+p.ID, nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Property removed", message(t, rec))

	rec = h.do(http.MethodGet, "/api/properties/"+p.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	id, err := primitive.ObjectIDFromHex(p.ID)
	require.NoError(t, err)
	reviews, err := h.db.Store().Reviews.ListByProperty(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	q := h.createProperty(owner, listing("Barn", 10, "land"))
	rec = h.do(http.MethodDelete, "/api/properties/"+q.ID, nil, admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodDelete, "/api/properties/"+q.ID, nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
