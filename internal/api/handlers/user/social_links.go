package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Socialite/internal/api/handlers"
	"Socialite/internal/api/middleware"
	"Socialite/internal/core/users"
)

// SocialLinkHandler edits the platform links shown on a profile
type SocialLinkHandler struct {
	service users.UserService
}

// NewSocialLinkHandler creates a new social link handler
func NewSocialLinkHandler(service users.UserService) *SocialLinkHandler {
	return &SocialLinkHandler{service: service}
}

// SocialLinkRequest carries the link for one platform.
type SocialLinkRequest struct {
	URL string `json:"url"`
}

// HandleSet handles PUT /api/user/{userId}/social-links/{platform}
func (h *SocialLinkHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r)
	if callerID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req SocialLinkRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	updated, err := h.service.SetSocialLink(r.Context(), callerID,
		chi.URLParam(r, "userId"), chi.URLParam(r, "platform"), req.URL)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"socialLinks": updated.SocialLinks})
}

// HandleRemove handles DELETE /api/user/{userId}/social-links/{platform}
func (h *SocialLinkHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r)
	if callerID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	updated, err := h.service.RemoveSocialLink(r.Context(), callerID,
		chi.URLParam(r, "userId"), chi.URLParam(r, "platform"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"socialLinks": updated.SocialLinks})
}
