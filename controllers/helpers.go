package controllers

import (
	"errors"
	"net/http"

	"github.com/dcode-github/urban_nest/backend/apperrors"
	"github.com/dcode-github/urban_nest/backend/middleware"
	"github.com/dcode-github/urban_nest/backend/models"
	"github.com/dcode-github/urban_nest/backend/store"
)

// notFound maps a missing document onto a 404 for resource and passes other errors through.
func notFound(err error, resource string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound(resource, err)
	}
	return err
}

// caller is the user loaded by middleware.Protect.
func caller(r *http.Request) *models.User {
	return middleware.CurrentUser(r.Context())
}
