package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/urban_nest/backend/apperrors"
	"github.com/dcode-github/urban_nest/backend/logger"
	"github.com/dcode-github/urban_nest/backend/models"
	"github.com/dcode-github/urban_nest/backend/store"
	"github.com/dcode-github/urban_nest/backend/utils"
)

type contextKey string

const userKey = contextKey("user")

// TokenValidator is satisfied by utils.TokenIssuer.
type TokenValidator interface {
	ValidateJWT(token string) (*utils.Claims, error)
}

// UserFinder loads the caller named by a token.
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Protect requires a valid bearer token naming an existing user and stores that user on
// the request context.
func Protect(tokens TokenValidator, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenHeader := r.Header.Get("Authorization")
			if tokenHeader == "" {
				utils.WriteError(w, r, apperrors.Unauthorized("Not authorized, no token", nil))
				return
			}

			parts := strings.SplitN(tokenHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				utils.WriteError(w, r, apperrors.Unauthorized("Not authorized, no token", nil))
				return
			}

			claims, err := tokens.ValidateJWT(strings.TrimSpace(parts[1]))
			if err != nil {
				logger.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected bearer token")
				utils.WriteError(w, r, apperrors.Unauthorized("Not authorized, token failed", err))
				return
			}

			id, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				utils.WriteError(w, r, apperrors.Unauthorized("Not authorized, token failed", err))
				return
			}

			user, err := users.FindByID(r.Context(), id)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					utils.WriteError(w, r, apperrors.Unauthorized("Not authorized, user not found", err))
					return
				}
				utils.WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// Admin must run after Protect.
func Admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !CurrentUser(r.Context()).IsAdmin() {
			utils.WriteError(w, r, apperrors.Forbidden("Not authorized as an admin"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser returns the authenticated caller, or nil outside Protect.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
