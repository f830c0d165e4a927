package user

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers"
	"Socialite/internal/api/middleware"
	"Socialite/internal/core/users"
)

// FollowHandler manages the follow graph
type FollowHandler struct {
	service users.UserService
}

// NewFollowHandler creates a new follow handler
func NewFollowHandler(service users.UserService) *FollowHandler {
	return &FollowHandler{service: service}
}

// HandleFollow handles POST /api/user/{userId}/follow
func (h *FollowHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r)
	if callerID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	if err := h.service.Follow(r.Context(), callerID, chi.URLParam(r, "userId")); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "User followed successfully"})
}

// HandleUnfollow handles POST /api/user/{userId}/unfollow
func (h *FollowHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r)
	if callerID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	if err := h.service.Unfollow(r.Context(), callerID, chi.URLParam(r, "userId")); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "User unfollowed successfully"})
}

// HandleFollowers handles GET /api/user/{userId}/followers
func (h *FollowHandler) HandleFollowers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListFollowers)
}

// HandleFollowing handles GET /api/user/{userId}/following
func (h *FollowHandler) HandleFollowing(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListFollowing)
}

func (h *FollowHandler) list(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, userID string, page, limit int) (*users.ListUsersResponse, error),
) {
	page, limit, ok := handlers.PageParams(w, r)
	if !ok {
		return
	}

	result, err := fn(r.Context(), chi.URLParam(r, "userId"), page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// HandleSearch handles GET /api/user/search and GET /api/post/search
// (?searchTerm&page&limit)
func (h *FollowHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := handlers.PageParams(w, r)
	if !ok {
		return
	}

	result, err := h.service.SearchUsers(r.Context(), r.URL.Query().Get("searchTerm"), page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
