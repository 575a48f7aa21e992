package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dcode-github/urban_nest/backend/apperrors"
	"github.com/dcode-github/urban_nest/backend/logger"
	"github.com/dcode-github/urban_nest/backend/models"
	"github.com/dcode-github/urban_nest/backend/services"
	"github.com/dcode-github/urban_nest/backend/store"
	"github.com/dcode-github/urban_nest/backend/utils"
)

// AuthResponse is a user document with a freshly issued token alongside its fields.
type AuthResponse struct {
	*models.User
	Token string `json:"token"`
}

type registerInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"omitempty,oneof=user agent"`
}

func (in *registerInput) Normalize() {
	utils.TrimString(&in.Name)
	in.Email = normalizeEmail(in.Email)
	utils.TrimString(&in.Phone)
}

type loginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (in *loginInput) Normalize() {
	in.Email = normalizeEmail(in.Email)
}

type googleInput struct {
	Credential string `json:"credential" validate:"required"`
}

type profileInput struct {
	Name            *string         `json:"name" validate:"omitempty,min=1,max=100"`
	Email           *string         `json:"email" validate:"omitempty,email"`
	Phone           *string         `json:"phone"`
	Avatar          *string         `json:"avatar"`
	Bio             *string         `json:"bio" validate:"omitempty,max=500"`
	Specialties     *[]string       `json:"specialties"`
	License         *string         `json:"license"`
	Experience      *float64        `json:"experience" validate:"omitempty,gte=0"`
	Location        *string         `json:"location"`
	Socials         *models.Socials `json:"socials"`
	Password        string          `json:"password" validate:"omitempty,min=6"`
	CurrentPassword string          `json:"currentPassword"`
}

func (in *profileInput) Normalize() {
	utils.TrimString(in.Name)
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	utils.TrimString(in.Phone)
	utils.TrimString(in.Avatar)
	utils.TrimString(in.Bio)
	utils.TrimString(in.License)
	utils.TrimString(in.Location)
}

type changePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type AuthController struct {
	users  store.UserStore
	tokens *utils.TokenIssuer
	google services.GoogleVerifier
}

// NewAuthController takes a nil google verifier when Google sign-in is not configured.
func NewAuthController(users store.UserStore, tokens *utils.TokenIssuer, google services.GoogleVerifier) *AuthController {
	return &AuthController{users: users, tokens: tokens, google: google}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (c *AuthController) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := c.tokens.GenerateJWT(user.ID.Hex())
	if err != nil {
		utils.WriteError(w, r, apperrors.Internal("Failed to generate token", err))
		return
	}
	user.Password = ""
	utils.WriteJSON(w, status, AuthResponse{User: user, Token: token})
}

func (c *AuthController) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in registerInput
		if err := utils.DecodeJSON(r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		if _, err := c.users.FindByEmail(r.Context(), in.Email); err == nil {
			utils.WriteError(w, r, apperrors.Duplicate("User already exists", nil))
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			utils.WriteError(w, r, err)
			return
		}

		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			utils.WriteError(w, r, apperrors.Internal("Failed to hash password", err))
			return
		}

		role := in.Role
		if role == "" {
			role = models.RoleUser
		}
		user := &models.User{
			Name:     in.Name,
			Email:    in.Email,
			Password: hash,
			Phone:    in.Phone,
			Role:     role,
		}
		if err := c.users.Create(r.Context(), user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				err = apperrors.Duplicate("User already exists", err)
			}
			utils.WriteError(w, r, err)
			return
		}

		logger.Info().Str("user", user.ID.Hex()).Str("role", user.Role).Msg("user registered")
		c.respondWithToken(w, r, http.StatusCreated, user)
	}
}

func (c *AuthController) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in loginInput
		if err := utils.DecodeJSON(r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		user, err := c.users.FindCredentials(r.Context(), in.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				err = apperrors.Unauthorized("Invalid email or password", err)
			}
			utils.WriteError(w, r, err)
			return
		}

		if !utils.CheckPasswordHash(in.Password, user.Password) {
			utils.WriteError(w, r, apperrors.Unauthorized("Invalid email or password", nil))
			return
		}

		c.respondWithToken(w, r, http.StatusOK, user)
	}
}

// GoogleLogin signs in with a Google ID token, linking to an existing account by email or
// creating one.
func (c *AuthController) GoogleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c.google == nil {
			utils.WriteError(w, r, apperrors.Unavailable("Google sign-in is not configured", nil))
			return
		}

		var in googleInput
		if err := utils.DecodeJSON(r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		identity, err := c.google.Verify(r.Context(), in.Credential)
		if err != nil {
			utils.WriteError(w, r, apperrors.Unauthorized("Invalid Google credential", err))
			return
		}

		email := normalizeEmail(identity.Email)
		user, err := c.users.FindByEmail(r.Context(), email)
		switch {
		case err == nil:
			user, err = c.linkGoogle(r, user, identity)
		case errors.Is(err, store.ErrNotFound):
			user, err = c.createGoogleUser(r, email, identity)
		}
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		c.respondWithToken(w, r, http.StatusOK, user)
	}
}

func (c *AuthController) linkGoogle(r *http.Request, user *models.User, identity *services.GoogleIdentity) (*models.User, error) {
	var update store.UserUpdate
	if user.GoogleID == "" && identity.Subject != "" {
		update.GoogleID = &identity.Subject
	}
	if user.Avatar == "" && identity.Picture != "" {
		update.Avatar = &identity.Picture
	}
	if update.GoogleID == nil && update.Avatar == nil {
		return user, nil
	}
	return c.users.Update(r.Context(), user.ID, update)
}

func (c *AuthController) createGoogleUser(r *http.Request, email string, identity *services.GoogleIdentity) (*models.User, error) {
	password, err := utils.RandomPassword()
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
		Avatar:   identity.Picture,
		GoogleID: identity.Subject,
	}
	if err := c.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Duplicate("User already exists", err)
		}
		return nil, err
	}
	logger.Info().Str("user", user.ID.Hex()).Msg("user registered with Google")
	return user, nil
}

func (c *AuthController) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, caller(r))
	}
}

func (c *AuthController) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := caller(r)

		var in profileInput
		if err := utils.DecodeJSON(r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		update := store.UserUpdate{
			Name:        in.Name,
			Phone:       in.Phone,
			Avatar:      in.Avatar,
			Bio:         in.Bio,
			Specialties: in.Specialties,
			License:     in.License,
			Experience:  in.Experience,
			Location:    in.Location,
			Socials:     in.Socials,
		}
		if in.Email != nil {
			email := *in.Email
			if email != user.Email {
				if _, err := c.users.FindByEmail(r.Context(), email); err == nil {
					utils.WriteError(w, r, apperrors.Duplicate("Email already in use", nil))
					return
				} else if !errors.Is(err, store.ErrNotFound) {
					utils.WriteError(w, r, err)
					return
				}
			}
			update.Email = &email
		}

		if in.Password != "" {
			if err := c.replacePassword(r, user, in.CurrentPassword, in.Password); err != nil {
				utils.WriteError(w, r, err)
				return
			}
		}

		updated, err := c.users.Update(r.Context(), user.ID, update)
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				err = apperrors.Duplicate("Email already in use", err)
			}
			utils.WriteError(w, r, notFound(err, "User"))
			return
		}

		c.respondWithToken(w, r, http.StatusOK, updated)
	}
}

func (c *AuthController) ChangePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in changePasswordInput
		if err := utils.DecodeJSON(r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		if err := c.replacePassword(r, caller(r), in.CurrentPassword, in.NewPassword); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		utils.WriteMessage(w, http.StatusOK, "Password updated successfully")
	}
}

// replacePassword re-verifies current against the stored hash before writing next.
func (c *AuthController) replacePassword(r *http.Request, user *models.User, current, next string) error {
	if current == "" {
		return apperrors.BadRequest("Please provide current password", nil)
	}

	creds, err := c.users.FindCredentialsByID(r.Context(), user.ID)
	if err != nil {
		return notFound(err, "User")
	}
	if !utils.CheckPasswordHash(current, creds.Password) {
		return apperrors.Unauthorized("Current password is incorrect", nil)
	}

	hash, err := utils.HashPassword(next)
	if err != nil {
		return apperrors.Internal("Failed to hash password", err)
	}
	return notFound(c.users.SetPassword(r.Context(), user.ID, hash), "User")
}
