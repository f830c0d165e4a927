package routes

import (
	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers/comments"
	"Socialite/internal/api/handlers/post"
	"Socialite/internal/api/handlers/user"
	"Socialite/internal/api/middleware"
	commentsCore "Socialite/internal/core/comments"
	"Socialite/internal/core/posts"
	"Socialite/internal/core/users"
)

// RegisterUserRoutes registers profile, follow graph and per-user listing
// endpoints under /api/user.
func RegisterUserRoutes(
	r chi.Router,
	userService users.UserService,
	postService posts.Service,
	commentService commentsCore.Service,
	authMiddleware *middleware.AuthMiddleware,
) {
	profileHandler := user.NewProfileHandler(userService)
	linkHandler := user.NewSocialLinkHandler(userService)
	followHandler := user.NewFollowHandler(userService)
	savedHandler := post.NewSavedHandler(postService)
	commentsHandler := comments.NewGetCommentsHandler(commentService)

	// Public reads
	r.Get("/search", followHandler.HandleSearch)
	r.With(authMiddleware.OptionalAuth).Get("/getuser/{userId}", profileHandler.HandleGet)
	r.Get("/{userId}/followers", followHandler.HandleFollowers)
	r.Get("/{userId}/following", followHandler.HandleFollowing)
	r.Get("/{userId}/posts", savedHandler.HandleListByAuthor)
	r.Get("/{userId}/comments", commentsHandler.HandleGetActorComments)
	r.Get("/getlikedposts/{userId}", savedHandler.HandleListLiked)

	// Authenticated
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Put("/update/{userId}", profileHandler.HandleUpdate)
		r.Delete("/delete/{userId}", profileHandler.HandleDelete)
		r.Post("/{userId}/follow", followHandler.HandleFollow)
		r.Post("/{userId}/unfollow", followHandler.HandleUnfollow)
		r.Get("/{userId}/savedPosts", savedHandler.HandleListSaved)
		r.Put("/{userId}/social-links/{platform}", linkHandler.HandleSet)
		r.Delete("/{userId}/social-links/{platform}", linkHandler.HandleRemove)
		r.Post("/user/save", savedHandler.HandleSave)
		r.Post("/user/unsave", savedHandler.HandleUnsave)
	})
}
