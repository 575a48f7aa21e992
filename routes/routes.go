package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dcode-github/urban_nest/backend/controllers"
	"github.com/dcode-github/urban_nest/backend/middleware"
)

type Controllers struct {
	Auth       *controllers.AuthController
	Properties *controllers.PropertyController
	Reviews    *controllers.ReviewController
	Inquiries  *controllers.InquiryController
	Users      *controllers.UserController
	System     *controllers.SystemController
}

// Gates are the middlewares routes opt into.
type Gates struct {
	Protect   func(http.Handler) http.Handler
	AuthLimit func(http.Handler) http.Handler
}

func Routes(router *mux.Router, c Controllers, g Gates) {
	protected := func(h http.HandlerFunc) http.Handler { return g.Protect(h) }
	admin := func(h http.HandlerFunc) http.Handler { return g.Protect(middleware.Admin(h)) }
	limited := func(h http.HandlerFunc) http.Handler { return g.AuthLimit(h) }

	router.HandleFunc("/", c.System.Welcome()).Methods("GET")
	router.HandleFunc("/health", c.System.Health()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Auth routes
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Handle("/register", limited(c.Auth.Register())).Methods("POST")
	auth.Handle("/login", limited(c.Auth.Login())).Methods("POST")
	auth.Handle("/google", limited(c.Auth.GoogleLogin())).Methods("POST")
	auth.Handle("/me", protected(c.Auth.Me())).Methods("GET")
	auth.Handle("/profile", protected(c.Auth.UpdateProfile())).Methods("PUT")
	auth.Handle("/change-password", protected(c.Auth.ChangePassword())).Methods("PUT")

	// Property routes; the literal paths must precede /{id}
	properties := api.PathPrefix("/properties").Subrouter()
	properties.HandleFunc("", c.Properties.GetProperties()).Methods("GET")
	properties.Handle("", protected(c.Properties.CreateProperty())).Methods("POST")
	properties.HandleFunc("/featured", c.Properties.GetFeaturedProperties()).Methods("GET")
	properties.Handle("/user/my-properties", protected(c.Properties.GetUserProperties())).Methods("GET")
	properties.HandleFunc("/{id}", c.Properties.GetPropertyByID()).Methods("GET")
	properties.Handle("/{id}", protected(c.Properties.UpdateProperty())).Methods("PUT")
	properties.Handle("/{id}", protected(c.Properties.DeleteProperty())).Methods("DELETE")

	// Review routes
	properties.HandleFunc("/{propertyId}/reviews", c.Reviews.GetReviews()).Methods("GET")
	properties.Handle("/{propertyId}/reviews", protected(c.Reviews.AddReview())).Methods("POST")
	api.Handle("/reviews/{id}", protected(c.Reviews.DeleteReview())).Methods("DELETE")

	// Inquiry routes
	inquiries := api.PathPrefix("/inquiries").Subrouter()
	inquiries.Handle("", protected(c.Inquiries.CreateInquiry())).Methods("POST")
	inquiries.Handle("/sent", protected(c.Inquiries.GetSentInquiries())).Methods("GET")
	inquiries.Handle("/received", protected(c.Inquiries.GetReceivedInquiries())).Methods("GET")
	inquiries.Handle("/{id}/read", protected(c.Inquiries.MarkAsRead())).Methods("PUT")
	inquiries.Handle("/{id}", protected(c.Inquiries.DeleteInquiry())).Methods("DELETE")

	// User routes
	users := api.PathPrefix("/users").Subrouter()
	users.Handle("/wishlist", protected(c.Users.GetWishlist())).Methods("GET")
	users.Handle("/wishlist/{propertyId}", protected(c.Users.ToggleWishlist())).Methods("POST")
	users.Handle("", admin(c.Users.GetAllUsers())).Methods("GET")
}
