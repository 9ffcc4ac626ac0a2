package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/agendahq/agenda-api/internal/store"
)

// HealthChecker handles health check requests
type HealthChecker struct {
	store *store.Store
}

// NewHealthChecker creates a health checker probing the given store.
func NewHealthChecker(st *store.Store) *HealthChecker {
	return &HealthChecker{store: st}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles GET /api/health. The default mode only reports that
// the process is serving; mode=extended additionally probes the snapshot
// location.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if r.URL.Query().Get("mode") == "extended" {
		checks := make(map[string]string)
		if err := h.checkStore(); err != nil {
			response.Status = "unhealthy"
			checks["store"] = "unhealthy: " + err.Error()
		} else {
			checks["store"] = "healthy"
		}
		response.Checks = checks

		status := http.StatusOK
		if response.Status == "unhealthy" {
			status = http.StatusServiceUnavailable
		}
		respondJSON(w, status, response)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// checkStore verifies the snapshot directory is reachable. Ephemeral stores
// are always healthy.
func (h *HealthChecker) checkStore() error {
	if h.store.Ephemeral() {
		return nil
	}
	_, err := os.Stat(filepath.Dir(h.store.Path()))
	return err
}
