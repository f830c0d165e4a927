package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers"
	"Socialite/internal/api/middleware"
	"Socialite/internal/core/posts"
)

// LikeHandler toggles the caller's like on a post
type LikeHandler struct {
	service posts.Service
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(service posts.Service) *LikeHandler {
	return &LikeHandler{service: service}
}

// HandleToggle handles PUT /api/post/likePost/{postId}
func (h *LikeHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	result, err := h.service.ToggleLike(r.Context(), userID, chi.URLParam(r, "postId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	message := "Post unliked"
	if result.Liked {
		message = "Post liked"
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":       message,
		"liked":         result.Liked,
		"numberOfLikes": result.NumberOfLikes,
	})
}
