package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers"
	"Socialite/internal/core/comments"
)

// GetCommentsHandler serves the read side of the comment tree
type GetCommentsHandler struct {
	service comments.Service
}

// NewGetCommentsHandler creates a new handler for fetching comments
func NewGetCommentsHandler(service comments.Service) *GetCommentsHandler {
	return &GetCommentsHandler{service: service}
}

// HandleGetTree handles GET /api/comment/{postId}/comments?page&limit
// Returns a page of root comments, newest first, with every reply materialized.
func (h *GetCommentsHandler) HandleGetTree(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := handlers.PageParams(w, r)
	if !ok {
		return
	}

	tree, err := h.service.GetCommentTree(r.Context(), chi.URLParam(r, "postId"), page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, tree)
}

// HandleGetComment handles GET /api/comment/{commentId}
func (h *GetCommentsHandler) HandleGetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.service.GetComment(r.Context(), chi.URLParam(r, "commentId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"comment": comment})
}

// HandleGetReplies handles GET /api/comment/{commentId}/replies?page&limit
func (h *GetCommentsHandler) HandleGetReplies(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := handlers.PageParams(w, r)
	if !ok {
		return
	}

	replies, err := h.service.GetReplies(r.Context(), chi.URLParam(r, "commentId"), page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, replies)
}

// HandleGetPostByComment handles GET /api/comment/{commentId}/getPostByRepliedComment
func (h *GetCommentsHandler) HandleGetPostByComment(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPostByComment(r.Context(), chi.URLParam(r, "commentId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"post": post})
}

// HandleGetActorComments handles GET /api/user/{userId}/comments?page&limit
func (h *GetCommentsHandler) HandleGetActorComments(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := handlers.PageParams(w, r)
	if !ok {
		return
	}

	result, err := h.service.GetActorComments(r.Context(), chi.URLParam(r, "userId"), page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
