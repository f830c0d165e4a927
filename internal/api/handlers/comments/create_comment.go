// Package comments provides HTTP handlers for the comment tree API.
package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers"
	"Socialite/internal/api/middleware"
	"Socialite/internal/core/comments"
)

// ContentRequest is the body accepted by create, reply and update.
type ContentRequest struct {
	Content string `json:"content"`
}

// CreateCommentHandler handles root comment and reply creation
type CreateCommentHandler struct {
	service comments.Service
}

// NewCreateCommentHandler creates a new handler for creating comments
func NewCreateCommentHandler(service comments.Service) *CreateCommentHandler {
	return &CreateCommentHandler{service: service}
}

// HandleCreate handles POST /api/comment/{postId}/createcomment
func (h *CreateCommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req ContentRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.CreateRootComment(r.Context(), chi.URLParam(r, "postId"), userID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, map[string]interface{}{"comment": comment})
}

// HandleReply handles POST /api/comment/{commentId}/reply
func (h *CreateCommentHandler) HandleReply(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req ContentRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	reply, err := h.service.CreateReply(r.Context(), chi.URLParam(r, "commentId"), userID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, map[string]interface{}{"reply": reply})
}
