package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/urban_nest/backend/apperrors"
	"github.com/dcode-github/urban_nest/backend/logger"
	"github.com/dcode-github/urban_nest/backend/models"
	"github.com/dcode-github/urban_nest/backend/services"
	"github.com/dcode-github/urban_nest/backend/store"
	"github.com/dcode-github/urban_nest/backend/utils"
)

type propertyInput struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description" validate:"required,max=2000"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Location    string   `json:"location" validate:"required"`
	Type        string   `json:"type" validate:"omitempty,oneof=house apartment condo villa land"`
	Status      string   `json:"status" validate:"omitempty,oneof=available pending sold"`
	Bedrooms    int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms   int      `json:"bathrooms" validate:"gte=0"`
	Area        float64  `json:"area" validate:"gte=0"`
	Images      []string `json:"images"`
	Features    []string `json:"features"`
	Featured    bool     `json:"featured"`
}

func (in *propertyInput) Normalize() {
	utils.TrimString(&in.Title)
	utils.TrimString(&in.Description)
	utils.TrimString(&in.Location)
}

func (in *propertyInput) property(owner primitive.ObjectID) *models.Property {
	p := &models.Property{
		Title:       in.Title,
		Description: in.Description,
		Price:       *in.Price,
		Location:    in.Location,
		Type:        in.Type,
		Status:      in.Status,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		Area:        in.Area,
		Images:      in.Images,
		Features:    in.Features,
		Featured:    in.Featured,
		Owner:       owner,
	}
	if p.Type == "" {
		p.Type = models.DefaultPropertyType
	}
	if p.Status == "" {
		p.Status = models.StatusAvailable
	}
	return p
}

type PropertyController struct {
	store *store.Store
	cache services.PropertyCache
}

func NewPropertyController(st *store.Store, cache services.PropertyCache) *PropertyController {
	return &PropertyController{store: st, cache: cache}
}

// canModify reports whether user may change a listing: its owner or an admin.
func canModify(user *models.User, p *models.Property) bool {
	return user != nil && (p.Owner == user.ID || user.IsAdmin())
}

func (c *PropertyController) GetProperties() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := store.ParsePropertyFilter(r.URL.Query())
		if err != nil {
			utils.WriteError(w, r, apperrors.BadRequest(err.Error(), err))
			return
		}
		c.serveListing(w, r, "list", filter)
	}
}

func (c *PropertyController) GetFeaturedProperties() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		featured := true
		c.serveListing(w, r, "featured", store.PropertyFilter{Featured: &featured, Limit: models.FeaturedLimit})
	}
}

// serveListing answers from the cache when it can and fills it otherwise. Writes invalidate
// the cache but views do not, so view counts in a cached listing may lag by up to the TTL.
func (c *PropertyController) serveListing(w http.ResponseWriter, r *http.Request, scope string, filter store.PropertyFilter) {
	key := services.CacheKey(scope, filter)
	if cached, ok := c.cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(cached)
		return
	}

	properties, err := c.store.Properties.List(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	body, err := json.Marshal(properties)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	c.cache.Set(r.Context(), key, body)

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (c *PropertyController) GetUserProperties() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := caller(r).ID
		properties, err := c.store.Properties.List(r.Context(), store.PropertyFilter{Owner: &owner})
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, properties)
	}
}

// GetPropertyByID counts a view on every successful fetch.
func (c *PropertyController) GetPropertyByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ParseObjectID(mux.Vars(r)["id"], "Property")
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		property, err := c.store.Properties.View(r.Context(), id)
		if err != nil {
			utils.WriteError(w, r, notFound(err, "Property"))
			return
		}
		utils.WriteJSON(w, http.StatusOK, property)
	}
}

func (c *PropertyController) CreateProperty() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in propertyInput
		if err := utils.DecodeJSON(r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		property := in.property(caller(r).ID)
		if err := c.store.Properties.Create(r.Context(), property); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		c.invalidate(r.Context())

		logger.Info().Str("property", property.ID.Hex()).Str("owner", property.Owner.Hex()).Msg("property created")
		utils.WriteJSON(w, http.StatusCreated, property)
	}
}

func (c *PropertyController) UpdateProperty() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ParseObjectID(mux.Vars(r)["id"], "Property")
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		existing, err := c.store.Properties.FindByID(r.Context(), id)
		if err != nil {
			utils.WriteError(w, r, notFound(err, "Property"))
			return
		}
		if !canModify(caller(r), existing) {
			utils.WriteError(w, r, apperrors.Forbidden("Not authorized to update this property"))
			return
		}

		var update store.PropertyUpdate
		if err := utils.DecodeJSON(r, &update); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		property, err := c.store.Properties.Update(r.Context(), id, update)
		if err != nil {
			utils.WriteError(w, r, notFound(err, "Property"))
			return
		}
		c.invalidate(r.Context())

		utils.WriteJSON(w, http.StatusOK, property)
	}
}

// DeleteProperty removes the listing and the reviews written for it.
func (c *PropertyController) DeleteProperty() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ParseObjectID(mux.Vars(r)["id"], "Property")
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		existing, err := c.store.Properties.FindByID(r.Context(), id)
		if err != nil {
			utils.WriteError(w, r, notFound(err, "Property"))
			return
		}
		if !canModify(caller(r), existing) {
			utils.WriteError(w, r, apperrors.Forbidden("Not authorized to delete this property"))
			return
		}

		if err := c.store.Properties.Delete(r.Context(), id); err != nil {
			utils.WriteError(w, r, notFound(err, "Property"))
			return
		}
		if err := c.store.Reviews.DeleteByProperty(r.Context(), id); err != nil {
			logger.Error().Err(err).Str("property", id.Hex()).Msg("failed to delete reviews of removed property")
		}
		c.invalidate(r.Context())

		utils.WriteMessage(w, http.StatusOK, "Property removed")
	}
}

// invalidate outlives a cancelled request so a write is never left with stale listings.
func (c *PropertyController) invalidate(ctx context.Context) {
	c.cache.Invalidate(context.WithoutCancel(ctx))
}
