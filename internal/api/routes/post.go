package routes

import (
	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers/post"
	"Socialite/internal/api/handlers/user"
	"Socialite/internal/api/middleware"
	"Socialite/internal/core/posts"
	"Socialite/internal/core/users"
)

// RegisterPostRoutes registers post endpoints under /api/post.
// User search is mounted here as well as under /api/user for older clients.
func RegisterPostRoutes(
	r chi.Router,
	service posts.Service,
	userService users.UserService,
	authMiddleware *middleware.AuthMiddleware,
) {
	createHandler := post.NewCreateHandler(service)
	getHandler := post.NewGetHandler(service)
	updateHandler := post.NewUpdateHandler(service)
	deleteHandler := post.NewDeleteHandler(service)
	likeHandler := post.NewLikeHandler(service)
	savedHandler := post.NewSavedHandler(service)
	searchHandler := user.NewFollowHandler(userService)

	r.With(authMiddleware.OptionalAuth).Get("/getposts", getHandler.HandleList)
	r.With(authMiddleware.OptionalAuth).Get("/getpostbyid/{id}", getHandler.HandleGet)
	r.Get("/search", searchHandler.HandleSearch)

	r.With(authMiddleware.RequireAuth).Post("/createpost", createHandler.HandleCreate)
	r.With(authMiddleware.RequireAuth).Get("/savedposts/{id}", savedHandler.HandleListSaved)
	r.With(authMiddleware.RequireAuth).Put("/likePost/{postId}", likeHandler.HandleToggle)
	r.With(authMiddleware.RequireAuth).Put("/updatepost/{postId}", updateHandler.HandleUpdate)
	r.With(authMiddleware.RequireAuth).Delete("/deletepost/{postId}", deleteHandler.HandleDelete)
}
