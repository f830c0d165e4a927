package post

import (
	"log"
	"net/http"

	"Socialite/internal/api/handlers"
	"Socialite/internal/core/posts"
)

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case posts.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "NotFound", err.Error())

	case posts.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case posts.IsForbidden(err):
		handlers.WriteError(w, http.StatusForbidden, "Forbidden", "You are not allowed to modify this post")

	case posts.IsTimeout(err):
		handlers.WriteError(w, http.StatusGatewayTimeout, "Timeout", "The request timed out")

	default:
		// Don't leak internal error details to clients
		log.Printf("Unexpected error in post handler: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
