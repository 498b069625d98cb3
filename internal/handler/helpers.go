package handler

import (
	"errors"
	"net/http"

	"humblebot/internal/domain"
	"humblebot/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrBackendUnavailable):
		httputil.RespondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &tooLarge):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
