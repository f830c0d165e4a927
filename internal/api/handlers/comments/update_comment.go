package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers"
	"Socialite/internal/api/middleware"
	"Socialite/internal/core/comments"
)

// UpdateCommentHandler handles comment edits
type UpdateCommentHandler struct {
	service comments.Service
}

// NewUpdateCommentHandler creates a new handler for updating comments
func NewUpdateCommentHandler(service comments.Service) *UpdateCommentHandler {
	return &UpdateCommentHandler{service: service}
}

// HandleUpdate handles PUT /api/comment/updatecomment/{commentId}
// Only the comment's author may edit it.
func (h *UpdateCommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req ContentRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	updated, err := h.service.UpdateComment(r.Context(), chi.URLParam(r, "commentId"), userID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"updatedComment": updated})
}
