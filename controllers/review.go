package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/urban_nest/backend/apperrors"
	"github.com/dcode-github/urban_nest/backend/models"
	"github.com/dcode-github/urban_nest/backend/services"
	"github.com/dcode-github/urban_nest/backend/store"
	"github.com/dcode-github/urban_nest/backend/utils"
)

type reviewInput struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}

func (in *reviewInput) Normalize() {
	utils.TrimString(&in.Comment)
}

type ReviewController struct {
	store   *store.Store
	ratings *services.RatingService
	cache   services.PropertyCache
}

func NewReviewController(st *store.Store, ratings *services.RatingService, cache services.PropertyCache) *ReviewController {
	return &ReviewController{store: st, ratings: ratings, cache: cache}
}

func (c *ReviewController) GetReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := utils.ParseObjectID(mux.Vars(r)["propertyId"], "Property")
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		reviews, err := c.store.Reviews.ListByProperty(r.Context(), propertyID)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, reviews)
	}
}

func (c *ReviewController) AddReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := utils.ParseObjectID(mux.Vars(r)["propertyId"], "Property")
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		if _, err := c.store.Properties.FindByID(r.Context(), propertyID); err != nil {
			utils.WriteError(w, r, notFound(err, "Property"))
			return
		}

		var in reviewInput
		if err := utils.DecodeJSON(r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		review := &models.Review{
			Property: propertyID,
			User:     caller(r).ID,
			Rating:   in.Rating,
			Comment:  in.Comment,
		}
		if err := c.store.Reviews.Create(r.Context(), review); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				err = apperrors.Duplicate("Property already reviewed", err)
			}
			utils.WriteError(w, r, err)
			return
		}

		if err := c.refresh(r.Context(), propertyID); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusCreated, review)
	}
}

func (c *ReviewController) DeleteReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ParseObjectID(mux.Vars(r)["id"], "Review")
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		review, err := c.store.Reviews.FindByID(r.Context(), id)
		if err != nil {
			utils.WriteError(w, r, notFound(err, "Review"))
			return
		}

		user := caller(r)
		if review.User != user.ID && !user.IsAdmin() {
			utils.WriteError(w, r, apperrors.Forbidden("Not authorized"))
			return
		}

		if err := c.store.Reviews.Delete(r.Context(), id); err != nil {
			utils.WriteError(w, r, notFound(err, "Review"))
			return
		}

		if err := c.refresh(r.Context(), review.Property); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		utils.WriteMessage(w, http.StatusOK, "Review removed")
	}
}

// refresh recomputes the property's rating and drops cached listings carrying the old one.
func (c *ReviewController) refresh(ctx context.Context, propertyID primitive.ObjectID) error {
	ctx = context.WithoutCancel(ctx)
	defer c.cache.Invalidate(ctx)
	return c.ratings.Refresh(ctx, propertyID)
}
