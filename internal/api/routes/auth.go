package routes

import (
	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers/auth"
	"Socialite/internal/core/users"
)

// RegisterAuthRoutes registers signup, signin and signout under /api/auth.
func RegisterAuthRoutes(r chi.Router, service users.UserService, cookieSecure bool) {
	h := auth.NewHandler(service, cookieSecure)

	r.Post("/signup", h.HandleSignup)
	r.Post("/signin", h.HandleSignin)
	r.Post("/signout", h.HandleSignout)
}
