package handlers

import (
	"net/http"
)

// Version is the service version reported by the root descriptor.
const Version = "1.0.0"

// ServiceDescriptor describes the API surface for GET /.
type ServiceDescriptor struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Root serves the service descriptor
func Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ServiceDescriptor{
		Name:    "agenda-api",
		Version: Version,
		Endpoints: map[string]string{
			"tasks":      "/api/tasks",
			"events":     "/api/events",
			"statistics": "/api/statistics/overview, /api/statistics/focus",
			"health":     "/api/health",
		},
	})
}
