package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers"
	"Socialite/internal/api/middleware"
	"Socialite/internal/core/comments"
)

// LikeCommentHandler toggles the caller's like on a comment
type LikeCommentHandler struct {
	service comments.Service
}

// NewLikeCommentHandler creates a new handler for comment likes
func NewLikeCommentHandler(service comments.Service) *LikeCommentHandler {
	return &LikeCommentHandler{service: service}
}

// HandleToggle handles POST /api/comment/{commentId}/like
func (h *LikeCommentHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	result, err := h.service.ToggleLike(r.Context(), chi.URLParam(r, "commentId"), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	message := "Comment unliked"
	if result.Liked {
		message = "Comment liked"
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":       message,
		"liked":         result.Liked,
		"numberOfLikes": result.NumberOfLikes,
	})
}
