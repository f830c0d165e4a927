package comments

import (
	"errors"
	"log"
	"net/http"

	"Socialite/internal/api/handlers"
	"Socialite/internal/core/comments"
)

// handleServiceError maps service-layer errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, comments.ErrUnauthenticated):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")

	case comments.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "NotFound", err.Error())

	case comments.IsDepthExceeded(err):
		handlers.WriteError(w, http.StatusBadRequest, "DepthExceeded", err.Error())

	case comments.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case comments.IsForbidden(err):
		handlers.WriteError(w, http.StatusForbidden, "Forbidden", "You are not allowed to modify this comment")

	case comments.IsTimeout(err):
		handlers.WriteError(w, http.StatusGatewayTimeout, "Timeout", "The request timed out")

	default:
		// Don't leak internal error details to clients
		log.Printf("Unexpected error in comments handler: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
