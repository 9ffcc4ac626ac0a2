package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agendahq/agenda-api/internal/apperr"
	"go.uber.org/zap"
)

// respondJSON writes data as a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// errorBody is the wire shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// respondError maps err onto the error taxonomy and writes the JSON error
// response. Unclassified errors become opaque 500s; the cause is logged,
// never echoed to the client.
func respondError(w http.ResponseWriter, log *zap.Logger, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		respondJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"})
		return
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Kind == apperr.KindIO || appErr.Kind == apperr.KindInternal {
			log.Error("request_failed",
				zap.Int("status_code", appErr.HTTPStatus()),
				zap.Error(err),
			)
			respondJSON(w, appErr.HTTPStatus(), errorBody{Error: appErr.Message})
			return
		}
		respondJSON(w, appErr.HTTPStatus(), errorBody{Error: appErr.Message, Details: appErr.Details})
		return
	}

	log.Error("request_failed_unclassified", zap.Error(err))
	respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

// decodeJSON parses the request body into dst, rejecting unknown behavior
// uniformly: a malformed body is a validation error, an oversized body keeps
// its MaxBytesError identity for respondError.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return apperr.Validation("invalid request body", err.Error())
	}
	return nil
}
