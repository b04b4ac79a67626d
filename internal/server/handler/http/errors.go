package http

import (
	"errors"
	"net/http"

	"github.com/nmcalabroso/fintrack/internal/service"
)

// writeServiceError maps service-layer sentinel errors to HTTP status
// codes. Anything unrecognized is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, service.ErrInvalidCredentials.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrUnauthorized):
		http.Error(w, service.ErrUnauthorized.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, service.ErrForbidden.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, service.ErrNotFound.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrDuplicateUser):
		http.Error(w, service.ErrDuplicateUser.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
