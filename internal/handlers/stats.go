package handlers

import (
	"net/http"

	"github.com/agendahq/agenda-api/internal/services/stats"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// StatsHandler serves the derived statistics endpoints
type StatsHandler struct {
	svc *stats.Service
	log *zap.Logger
}

// NewStatsHandler creates a new statistics handler
func NewStatsHandler(svc *stats.Service, log *zap.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, log: log}
}

// RegisterRoutes registers statistics routes on the given router.
// The router should already carry the /api/statistics prefix.
func (h *StatsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/overview", h.Overview).Methods("GET")
	r.HandleFunc("/focus", h.Focus).Methods("GET")
}

// Overview returns the combined task and event snapshot
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Overview(r.Context()))
}

// Focus returns the focus recommendation
func (h *StatsHandler) Focus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Focus(r.Context()))
}
