// Package server assembles the HTTP handler. It is used by main and can be mounted by
// serverless hosts that never start a listener.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/dcode-github/urban_nest/backend/config"
	"github.com/dcode-github/urban_nest/backend/controllers"
	"github.com/dcode-github/urban_nest/backend/logger"
	"github.com/dcode-github/urban_nest/backend/middleware"
	"github.com/dcode-github/urban_nest/backend/routes"
	"github.com/dcode-github/urban_nest/backend/services"
	"github.com/dcode-github/urban_nest/backend/store"
	"github.com/dcode-github/urban_nest/backend/utils"
)

// Deps are the collaborators a handler is built from. Cache and Google may be nil.
type Deps struct {
	Config *config.Config
	Store  *store.Store
	DB     controllers.Pinger
	Cache  services.PropertyCache
	Google services.GoogleVerifier
}

func NewHandler(d Deps) http.Handler {
	cache := d.Cache
	if cache == nil {
		cache = services.NopCache{}
	}

	tokens := utils.NewTokenIssuer(d.Config.JWTSecret, d.Config.JWTExpire)
	ratings := services.NewRatingService(d.Store.Reviews, d.Store.Properties, d.Config.StrictRatingUpdates)

	proxies, err := middleware.ParseTrustedProxies(d.Config.TrustedProxies)
	if err != nil {
		logger.Error().Err(err).Msg("ignoring TRUSTED_PROXIES, forwarding headers will not be trusted")
		proxies = nil
	}

	router := mux.NewRouter()
	router.NotFoundHandler = middleware.NotFound()
	router.MethodNotAllowedHandler = middleware.MethodNotAllowed()

	routes.Routes(router, routes.Controllers{
		Auth:       controllers.NewAuthController(d.Store.Users, tokens, d.Google),
		Properties: controllers.NewPropertyController(d.Store, cache),
		Reviews:    controllers.NewReviewController(d.Store, ratings, cache),
		Inquiries:  controllers.NewInquiryController(d.Store),
		Users:      controllers.NewUserController(d.Store),
		System:     controllers.NewSystemController(d.DB),
	}, routes.Gates{
		Protect:   middleware.Protect(tokens, d.Store.Users),
		AuthLimit: middleware.NewRateLimiter(d.Config.AuthRateLimit, proxies).Middleware,
	})

	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   d.Config.FrontendURLs,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	return middleware.Recover(middleware.Logging(corsOptions.Handler(router)))
}
