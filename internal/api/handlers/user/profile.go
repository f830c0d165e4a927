// Package user provides HTTP handlers for profiles and the follow graph.
package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers"
	"Socialite/internal/api/middleware"
	"Socialite/internal/core/users"
)

// ProfileHandler serves profile reads and writes
type ProfileHandler struct {
	service users.UserService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service users.UserService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// HandleGet handles GET /api/user/getuser/{userId}
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), chi.URLParam(r, "userId"), middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, profile)
}

// HandleUpdate handles PUT /api/user/update/{userId}
// Users may only update their own profile.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r)
	if callerID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req users.UpdateProfileRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), callerID, chi.URLParam(r, "userId"), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": updated})
}

// HandleDelete handles DELETE /api/user/delete/{userId}
// Deleting your own account also clears the session cookie.
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r)
	if callerID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	if err := h.service.DeleteProfile(r.Context(), callerID, chi.URLParam(r, "userId")); err != nil {
		handleServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "User has been deleted"})
}
