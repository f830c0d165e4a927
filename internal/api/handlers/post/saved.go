package post

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers"
	"Socialite/internal/api/middleware"
	"Socialite/internal/core/posts"
)

// SavedHandler manages bookmarks and the per-user post listings
type SavedHandler struct {
	service posts.Service
}

// NewSavedHandler creates a new saved-posts handler
func NewSavedHandler(service posts.Service) *SavedHandler {
	return &SavedHandler{service: service}
}

// SaveRequest names the post to bookmark or un-bookmark.
type SaveRequest struct {
	PostID string `json:"postId"`
}

// HandleSave handles POST /api/user/user/save
func (h *SavedHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	h.setSaved(w, r, true)
}

// HandleUnsave handles POST /api/user/user/unsave
func (h *SavedHandler) HandleUnsave(w http.ResponseWriter, r *http.Request) {
	h.setSaved(w, r, false)
}

func (h *SavedHandler) setSaved(w http.ResponseWriter, r *http.Request, save bool) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req SaveRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}
	if req.PostID == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "postId is required")
		return
	}

	var err error
	message := "Post saved"
	if save {
		err = h.service.SavePost(r.Context(), userID, req.PostID)
	} else {
		err = h.service.UnsavePost(r.Context(), userID, req.PostID)
		message = "Post removed from saved"
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": message, "saved": save})
}

// HandleListSaved handles GET /api/post/savedposts/{id} and GET /api/user/{userId}/savedPosts.
// Bookmarks are private to their owner.
func (h *SavedHandler) HandleListSaved(w http.ResponseWriter, r *http.Request) {
	userID := pathUserID(r)
	if caller := middleware.GetUserID(r); caller != userID {
		handlers.WriteError(w, http.StatusForbidden, "Forbidden", "You can only view your own saved posts")
		return
	}
	h.list(w, r, userID, h.service.ListSaved)
}

// HandleListLiked handles GET /api/user/getlikedposts/{userId}
func (h *SavedHandler) HandleListLiked(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, pathUserID(r), h.service.ListLiked)
}

// HandleListByAuthor handles GET /api/user/{userId}/posts
func (h *SavedHandler) HandleListByAuthor(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, pathUserID(r), h.service.ListByAuthor)
}

type listFunc func(ctx context.Context, userID string, page, limit int) (*posts.PagedPostsResponse, error)

func (h *SavedHandler) list(w http.ResponseWriter, r *http.Request, userID string, fn listFunc) {
	page, limit, ok := handlers.PageParams(w, r)
	if !ok {
		return
	}

	result, err := fn(r.Context(), userID, page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// pathUserID accepts either route spelling of the user id parameter.
func pathUserID(r *http.Request) string {
	if id := chi.URLParam(r, "userId"); id != "" {
		return id
	}
	return chi.URLParam(r, "id")
}
