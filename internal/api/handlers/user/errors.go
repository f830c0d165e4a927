package user

import (
	"errors"
	"log"
	"net/http"

	"Socialite/internal/api/handlers"
	"Socialite/internal/core/users"
)

// handleServiceError maps user service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case users.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "NotFound", err.Error())

	case users.IsConflict(err):
		handlers.WriteError(w, http.StatusConflict, "Conflict", err.Error())

	case users.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case errors.Is(err, users.ErrNotAuthorized):
		handlers.WriteError(w, http.StatusForbidden, "Forbidden", err.Error())

	case users.IsTimeout(err):
		handlers.WriteError(w, http.StatusGatewayTimeout, "Timeout", "The request timed out")

	default:
		log.Printf("Unexpected error in user handler: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
