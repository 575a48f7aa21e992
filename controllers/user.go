package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/urban_nest/backend/models"
	"github.com/dcode-github/urban_nest/backend/store"
	"github.com/dcode-github/urban_nest/backend/utils"
)

type UserController struct {
	store *store.Store
}

func NewUserController(st *store.Store) *UserController {
	return &UserController{store: st}
}

// GetWishlist returns the saved properties in the order they were saved. Properties that
// no longer exist are skipped.
func (c *UserController) GetWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wishlist := caller(r).Wishlist

		found, err := c.store.Properties.FindByIDs(r.Context(), wishlist)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		byID := make(map[primitive.ObjectID]models.Property, len(found))
		for _, p := range found {
			byID[p.ID] = p
		}
		properties := make([]models.Property, 0, len(found))
		for _, id := range wishlist {
			if p, ok := byID[id]; ok {
				properties = append(properties, p)
			}
		}

		utils.WriteJSON(w, http.StatusOK, properties)
	}
}

// ToggleWishlist saves the property or, when already saved, removes it.
func (c *UserController) ToggleWishlist() http.HandlerFunc {
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

		user := caller(r)
		var wishlist []primitive.ObjectID
		if user.InWishlist(propertyID) {
			wishlist, err = c.store.Users.RemoveFromWishlist(r.Context(), user.ID, propertyID)
		} else {
			wishlist, err = c.store.Users.AddToWishlist(r.Context(), user.ID, propertyID)
		}
		if err != nil {
			utils.WriteError(w, r, notFound(err, "User"))
			return
		}

		utils.WriteJSON(w, http.StatusOK, wishlist)
	}
}

func (c *UserController) GetAllUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := c.store.Users.List(r.Context())
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, users)
	}
}
