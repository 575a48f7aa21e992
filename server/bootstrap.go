package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dcode-github/urban_nest/backend/config"
	"github.com/dcode-github/urban_nest/backend/middleware"
	"github.com/dcode-github/urban_nest/backend/services"
	"github.com/dcode-github/urban_nest/backend/store"
)

// Resources are the long lived connections behind a handler.
type Resources struct {
	Mongo *mongo.Client
	Redis *redis.Client
}

func (r *Resources) Close() {
	if r.Redis != nil {
		_ = r.Redis.Close()
	}
	if r.Mongo != nil {
		config.CloseDBConnection(r.Mongo)
	}
}

// Bootstrap connects to MongoDB and Redis, ensures indexes and builds the handler.
func Bootstrap(ctx context.Context, cfg *config.Config) (http.Handler, *Resources, error) {
	if _, err := middleware.ParseTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, nil, err
	}

	client, err := config.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	res := &Resources{Mongo: client}

	st := store.New(client.Database(cfg.DBName))
	if err := st.EnsureIndexes(ctx); err != nil {
		res.Close()
		return nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}

	res.Redis, err = config.InitRedis(ctx, cfg)
	if err != nil {
		res.Close()
		return nil, nil, err
	}

	handler := NewHandler(Deps{
		Config: cfg,
		Store:  st,
		DB:     st,
		Cache:  services.NewPropertyCache(res.Redis, cfg.CacheTTL),
		Google: services.NewGoogleVerifier(cfg.GoogleClientID),
	})
	return handler, res, nil
}

// Serverless returns a handler for hosts that import the package instead of running main.
// Configuration is read and connections are opened on the first request.
func Serverless() http.Handler {
	return NewLazyHandler(func(ctx context.Context) (http.Handler, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		h, _, err := Bootstrap(context.WithoutCancel(ctx), cfg)
		return h, err
	})
}
