package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/dcode-github/urban_nest/backend/apperrors"
	"github.com/dcode-github/urban_nest/backend/logger"
	"github.com/dcode-github/urban_nest/backend/utils"
)

// Builder produces the real handler, typically by connecting to the database.
type Builder func(ctx context.Context) (http.Handler, error)

// LazyHandler defers building until the first request. A failed build answers 503 and is
// retried on the next request; a successful one is reused for the life of the process.
type LazyHandler struct {
	build Builder

	mu      sync.Mutex
	handler http.Handler
}

func NewLazyHandler(build Builder) *LazyHandler {
	return &LazyHandler{build: build}
}

func (l *LazyHandler) get(ctx context.Context) (http.Handler, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handler != nil {
		return l.handler, nil
	}
	h, err := l.build(ctx)
	if err != nil {
		return nil, err
	}
	l.handler = h
	return h, nil
}

func (l *LazyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h, err := l.get(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialise handler")
		utils.WriteError(w, r, apperrors.Unavailable("Service unavailable", err))
		return
	}
	h.ServeHTTP(w, r)
}
