package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers"
	"Socialite/internal/api/middleware"
	"Socialite/internal/core/comments"
)

// DeleteCommentHandler handles comment deletion
type DeleteCommentHandler struct {
	service comments.Service
}

// NewDeleteCommentHandler creates a new handler for deleting comments
func NewDeleteCommentHandler(service comments.Service) *DeleteCommentHandler {
	return &DeleteCommentHandler{service: service}
}

// HandleDelete handles DELETE /api/comment/deletecomment/{commentId}
// Removes the comment together with all of its replies.
func (h *DeleteCommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	result, err := h.service.DeleteComment(r.Context(), chi.URLParam(r, "commentId"), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Comment deleted successfully",
		"deleted": result.Deleted,
	})
}
