package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/urban_nest/backend/apperrors"
)

type listingInput struct {
	Title string  `json:"title" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
	Type  string  `json:"type" validate:"omitempty,oneof=house apartment"`
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", apperrors.NotFound("Property", nil), http.StatusNotFound, `{"message":"Property not found"}`},
		{"forbidden", apperrors.Forbidden("Not authorized"), http.StatusForbidden, `{"message":"Not authorized"}`},
		{"duplicate", apperrors.Duplicate("User already exists", nil), http.StatusBadRequest, `{"message":"User already exists"}`},
		{"unexpected", errors.New("socket closed"), http.StatusInternalServerError, `{"message":"Server error"}`},
		{"validation", Validate(listingInput{Price: 1}), http.StatusBadRequest, `{"message":"Please provide title"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	decode := func(body string) (listingInput, error) {
		var in listingInput
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return in, DecodeJSON(req, &in)
	}

	in, err := decode(`{"title":"Loft","price":10,"type":"house"}`)
	require.NoError(t, err)
	assert.Equal(t, "Loft", in.Title)

	_, err = decode(`{"title":`)
	assert.True(t, apperrors.Is(err, "BAD_REQUEST"))

	_, err = decode(`{"title":"Loft","price":-5}`)
	require.Error(t, err)
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/", nil), err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"price cannot be less than 0"}`, rec.Body.String())

	_, err = decode(`{"title":"Loft","type":"castle"}`)
	rec = httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/", nil), err)
	assert.JSONEq(t, `{"message":"type must be one of: house, apartment"}`, rec.Body.String())
}

type trimmedInput struct {
	Name string `json:"name" validate:"required"`
}

func (in *trimmedInput) Normalize() {
	TrimString(&in.Name)
}

func TestDecodeJSONNormalizesBeforeValidating(t *testing.T) {
	var in trimmedInput
	err := DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"  Ana "}`)), &in)
	require.NoError(t, err)
	assert.Equal(t, "Ana", in.Name)

	err = DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"   "}`)), &trimmedInput{})
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/", nil), err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Please provide name"}`, rec.Body.String())
}

func TestTrimString(t *testing.T) {
	TrimString(nil)

	s := "\t pool \n"
	TrimString(&s)
	assert.Equal(t, "pool", s)
}

func TestParseObjectID(t *testing.T) {
	id, err := ParseObjectID("64b7f0c2a1b2c3d4e5f60718", "Property")
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", id.Hex())

	_, err = ParseObjectID("nope", "Property")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
	assert.ErrorIs(t, err, primitive.ErrInvalidHex)
}
