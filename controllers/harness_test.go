package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dcode-github/urban_nest/backend/config"
	"github.com/dcode-github/urban_nest/backend/models"
	"github.com/dcode-github/urban_nest/backend/server"
	"github.com/dcode-github/urban_nest/backend/services"
	"github.com/dcode-github/urban_nest/backend/store/memstore"
	"github.com/dcode-github/urban_nest/backend/utils"
)

const testSecret = "test-secret"

type recordingCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	hits        int
	invalidated int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: map[string][]byte{}}
}

func (c *recordingCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return data, ok
}

func (c *recordingCache) Set(_ context.Context, key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
}

func (c *recordingCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]byte{}
	c.invalidated++
}

type fakeGoogle struct {
	identity *services.GoogleIdentity
	err      error
}

func (f *fakeGoogle) Verify(_ context.Context, credential string) (*services.GoogleIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type harness struct {
	t       *testing.T
	db      *memstore.DB
	cache   *recordingCache
	google  *fakeGoogle
	tokens  *utils.TokenIssuer
	handler http.Handler
}

func newHarness(t *testing.T, tweak ...func(*config.Config)) *harness {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:    testSecret,
		JWTExpire:    time.Hour,
		FrontendURLs: []string{"http://localhost:3000"},
	}
	for _, fn := range tweak {
		fn(cfg)
	}

	h := &harness{
		t:      t,
		db:     memstore.New(),
		cache:  newRecordingCache(),
		google: &fakeGoogle{},
		tokens: utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpire),
	}
	h.handler = server.NewHandler(server.Deps{
		Config: cfg,
		Store:  h.db.Store(),
		DB:     h.db,
		Cache:  h.cache,
		Google: h.google,
	})
	return h
}

func (h *harness) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

// createUser stores a user with password "secret123" and returns it with a valid token.
func (h *harness) createUser(name, email, role string) (*models.User, string) {
	h.t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(h.t, err)

	user := &models.User{Name: name, Email: email, Password: hash, Role: role}
	require.NoError(h.t, h.db.Store().Users.Create(context.Background(), user))

	token, err := h.tokens.GenerateJWT(user.ID.Hex())
	require.NoError(h.t, err)
	return user, token
}

func (h *harness) createProperty(token string, body map[string]interface{}) propertyJSON {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/api/properties", body, token)
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	var p propertyJSON
	decode(h.t, rec, &p)
	return p
}

func listing(title string, price float64, kind string) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"description": "A place to live",
		"price":       price,
		"location":    "Austin, TX",
		"type":        kind,
	}
}

type propertyJSON struct {
	ID            string          `json:"_id"`
	Title         string          `json:"title"`
	Price         float64         `json:"price"`
	Location      string          `json:"location"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Views         int64           `json:"views"`
	Featured      bool            `json:"featured"`
	NumReviews    int64           `json:"numReviews"`
	AverageRating float64         `json:"averageRating"`
	Images        []string        `json:"images"`
	Owner         json.RawMessage `json:"owner"`
}

type userSummaryJSON struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.MessageResponse
	decode(t, rec, &body)
	return body.Message
}
