package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"Socialite/internal/api/middleware"
	"Socialite/internal/core/comments"
	"Socialite/internal/core/posts"
	"Socialite/internal/core/users"
)

// Deps are the services and settings the HTTP surface is built from.
type Deps struct {
	Users        users.UserService
	Posts        posts.Service
	Comments     comments.Service
	Auth         *middleware.AuthMiddleware
	RateLimiter  *middleware.RateLimiter
	ClientOrigin string
	CookieSecure bool
}

// NewRouter assembles the middleware stack and mounts every API group.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{d.ClientOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if d.RateLimiter != nil {
			// Resolve the caller first so signed-in users get their own bucket.
			r.Use(d.Auth.OptionalAuth)
			r.Use(d.RateLimiter.Middleware)
		}

		r.Route("/auth", func(r chi.Router) {
			RegisterAuthRoutes(r, d.Users, d.CookieSecure)
		})
		r.Route("/user", func(r chi.Router) {
			RegisterUserRoutes(r, d.Users, d.Posts, d.Comments, d.Auth)
		})
		r.Route("/post", func(r chi.Router) {
			RegisterPostRoutes(r, d.Posts, d.Users, d.Auth)
		})
		r.Route("/comment", func(r chi.Router) {
			RegisterCommentRoutes(r, d.Comments, d.Auth)
		})
	})

	return r
}
