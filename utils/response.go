package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/urban_nest/backend/apperrors"
	"github.com/dcode-github/urban_nest/backend/logger"
)

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, MessageResponse{Message: message})
}

// WriteError renders err as {"message": ...}. Application errors keep their status,
// validation errors become 400 and anything else is logged and reported as 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		WriteMessage(w, http.StatusBadRequest, validationMessage(validationErrs))
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg(appErr.Message)
		}
		WriteMessage(w, appErr.Status, appErr.Message)
		return
	}

	logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("unhandled error")
	WriteMessage(w, http.StatusInternalServerError, "Server error")
}

func validationMessage(errs validator.ValidationErrors) string {
	for _, fe := range errs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			return "Please provide " + field
		case "email":
			return "Please provide a valid email"
		case "oneof":
			return field + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
		case "gte":
			return field + " cannot be less than " + fe.Param()
		case "lte":
			return field + " cannot be more than " + fe.Param()
		case "min":
			if fe.Param() == "1" {
				return "Please provide " + field
			}
			return field + " must be at least " + fe.Param() + " characters"
		case "max":
			return field + " cannot be more than " + fe.Param() + " characters"
		default:
			return field + " is invalid"
		}
	}
	return "Invalid input data"
}

// Normalizer is implemented by request bodies that clean their fields before validation.
type Normalizer interface {
	Normalize()
}

// DecodeJSON reads the request body into v, normalizes it when v is a Normalizer and then
// runs struct validation on it.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.BadRequest("Invalid request body", err)
	}
	if n, ok := v.(Normalizer); ok {
		n.Normalize()
	}
	return Validate(v)
}

// TrimString trims *s in place. A nil pointer is left alone.
func TrimString(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// ParseObjectID converts a hex path parameter. Malformed ids are reported as the
// resource being absent.
func ParseObjectID(raw, resource string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperrors.NotFound(resource, err)
	}
	return id, nil
}
