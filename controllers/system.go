package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/dcode-github/urban_nest/backend/apperrors"
	"github.com/dcode-github/urban_nest/backend/utils"
)

const APIVersion = "1.0.0"

type Pinger interface {
	Ping(ctx context.Context) error
}

type SystemController struct {
	db Pinger
}

func NewSystemController(db Pinger) *SystemController {
	return &SystemController{db: db}
}

func (c *SystemController) Welcome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Welcome to Urban Nest API 🏠",
			"version": APIVersion,
			"endpoints": map[string]string{
				"auth":       "/api/auth",
				"properties": "/api/properties",
				"inquiries":  "/api/inquiries",
				"reviews":    "/api/reviews",
				"users":      "/api/users",
			},
		})
	}
}

// Health reports 503 while the database is unreachable.
func (c *SystemController) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := c.db.Ping(ctx); err != nil {
			utils.WriteError(w, r, apperrors.Unavailable("Database unavailable", err))
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
