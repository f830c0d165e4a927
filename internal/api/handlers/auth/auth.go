// Package auth provides the signup, signin and signout HTTP handlers.
package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"Socialite/internal/api/handlers"
	"Socialite/internal/api/middleware"
	"Socialite/internal/core/users"
)

// Handler issues and clears session cookies
type Handler struct {
	service      users.UserService
	cookieSecure bool
}

// NewHandler creates a new auth handler. cookieSecure marks the session
// cookie Secure and SameSite=None so a client on another origin can send it.
func NewHandler(service users.UserService, cookieSecure bool) *Handler {
	return &Handler{service: service, cookieSecure: cookieSecure}
}

// HandleSignup handles POST /api/auth/signup
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req users.SignupRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	h.setSessionCookie(w, resp.Token, resp.ExpiresAt)
	handlers.WriteJSON(w, http.StatusCreated, resp)
}

// HandleSignin handles POST /api/auth/signin
func (h *Handler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req users.SigninRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Signin(r.Context(), req)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	h.setSessionCookie(w, resp.Token, resp.ExpiresAt)
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// HandleSignout handles POST /api/auth/signout
func (h *Handler) HandleSignout(w http.ResponseWriter, r *http.Request) {
	h.setSessionCookie(w, "", time.Unix(0, 0))
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "User has been signed out"})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	if h.cookieSecure {
		cookie.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, cookie)
}

func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrInvalidCredentials):
		handlers.WriteError(w, http.StatusUnauthorized, "InvalidCredentials", "Invalid email or password")

	case users.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "NotFound", err.Error())

	case users.IsConflict(err):
		handlers.WriteError(w, http.StatusConflict, "Conflict", err.Error())

	case users.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case users.IsTimeout(err):
		handlers.WriteError(w, http.StatusGatewayTimeout, "Timeout", "The request timed out")

	default:
		log.Printf("Unexpected error in auth handler: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
