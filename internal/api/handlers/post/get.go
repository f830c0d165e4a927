package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers"
	"Socialite/internal/api/middleware"
	"Socialite/internal/core/posts"
)

// GetHandler serves post reads
type GetHandler struct {
	service posts.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service posts.Service) *GetHandler {
	return &GetHandler{service: service}
}

// HandleList handles GET /api/post/getposts
// Query: startIndex, limit, order (asc|desc), userId, postId, searchTerm
func (h *GetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	startIndex, ok := handlers.QueryInt(w, r, "startIndex", 0)
	if !ok {
		return
	}
	limit, ok := handlers.QueryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	query := r.URL.Query()
	order := query.Get("order")
	if order != "" && order != posts.OrderAsc && order != posts.OrderDesc {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "order must be one of: asc, desc")
		return
	}

	result, err := h.service.ListPosts(r.Context(), posts.ListPostsRequest{
		Order:      order,
		UserID:     query.Get("userId"),
		PostID:     query.Get("postId"),
		SearchTerm: query.Get("searchTerm"),
		StartIndex: startIndex,
		Limit:      limit,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// HandleGet handles GET /api/post/getpostbyid/{id}
// Authenticated callers also receive their liked/saved state.
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"post": post})
}
