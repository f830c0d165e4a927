package routes

import (
	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers/comments"
	"Socialite/internal/api/middleware"
	commentsCore "Socialite/internal/core/comments"
)

// RegisterCommentRoutes registers the comment tree endpoints under /api/comment.
// Writes require authentication; reads accept anonymous callers.
func RegisterCommentRoutes(r chi.Router, service commentsCore.Service, authMiddleware *middleware.AuthMiddleware) {
	createHandler := comments.NewCreateCommentHandler(service)
	getHandler := comments.NewGetCommentsHandler(service)
	updateHandler := comments.NewUpdateCommentHandler(service)
	deleteHandler := comments.NewDeleteCommentHandler(service)
	likeHandler := comments.NewLikeCommentHandler(service)

	r.With(authMiddleware.RequireAuth).Post("/{postId}/createcomment", createHandler.HandleCreate)
	r.With(authMiddleware.RequireAuth).Post("/{commentId}/reply", createHandler.HandleReply)
	r.With(authMiddleware.RequireAuth).Put("/updatecomment/{commentId}", updateHandler.HandleUpdate)
	r.With(authMiddleware.RequireAuth).Delete("/deletecomment/{commentId}", deleteHandler.HandleDelete)
	r.With(authMiddleware.RequireAuth).Post("/{commentId}/like", likeHandler.HandleToggle)
	r.With(authMiddleware.RequireAuth).Get("/{commentId}/getPostByRepliedComment", getHandler.HandleGetPostByComment)

	r.With(authMiddleware.OptionalAuth).Get("/{postId}/comments", getHandler.HandleGetTree)
	r.With(authMiddleware.OptionalAuth).Get("/{commentId}/replies", getHandler.HandleGetReplies)
	r.With(authMiddleware.OptionalAuth).Get("/{commentId}", getHandler.HandleGetComment)
}
