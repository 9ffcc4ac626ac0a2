package handlers

import (
	"net/http"

	"github.com/agendahq/agenda-api/internal/apperr"
	"go.uber.org/zap"
)

// NotFound returns the handler for unmatched routes.
func NotFound(log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, log, apperr.NotFound("route", r.URL.Path))
	})
}

// MethodNotAllowed returns the handler for a wrong verb on a matched path.
func MethodNotAllowed(log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, log, apperr.MethodNotAllowed(r.Method))
	})
}
