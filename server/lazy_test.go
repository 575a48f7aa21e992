package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLazyHandlerBuildsOnce(t *testing.T) {
	builds := 0
	lazy := NewLazyHandler(func(context.Context) (http.Handler, error) {
		builds++
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}), nil
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		lazy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}
	assert.Equal(t, 1, builds)
}

func TestLazyHandlerRetriesFailedBuild(t *testing.T) {
	builds := 0
	lazy := NewLazyHandler(func(context.Context) (http.Handler, error) {
		builds++
		if builds == 1 {
			return nil, errors.New("connection refused")
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}), nil
	})

	rec := httptest.NewRecorder()
	lazy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"Service unavailable"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	lazy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 2, builds)
}
