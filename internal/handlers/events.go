package handlers

import (
	"net/http"
	"time"

	"github.com/agendahq/agenda-api/internal/apperr"
	"github.com/agendahq/agenda-api/internal/services/events"
	"github.com/agendahq/agenda-api/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// EventHandler handles event-related requests
type EventHandler struct {
	svc *events.Service
	log *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(svc *events.Service, log *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, log: log}
}

// RegisterRoutes registers event routes on the given router.
// The router should already carry the /api/events prefix.
func (h *EventHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListEvents).Methods("GET")
	r.HandleFunc("", h.CreateEvent).Methods("POST")
	r.HandleFunc("/{id}", h.GetEvent).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateEvent).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteEvent).Methods("DELETE")
}

// CreateEventRequest represents a create event request
type CreateEventRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=500"`
	Description string     `json:"description" validate:"max=10000"`
	Location    string     `json:"location" validate:"max=500"`
	StartTime   *time.Time `json:"startTime" validate:"required"`
	EndTime     *time.Time `json:"endTime"`
	AllDay      bool       `json:"allDay"`
	Tags        []string   `json:"tags"`
}

// UpdateEventRequest represents a partial event update
type UpdateEventRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=500"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	Location    *string    `json:"location" validate:"omitempty,max=500"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	AllDay      *bool      `json:"allDay"`
	Tags        []string   `json:"tags"`
}

// ListEvents lists events with filtering and pagination, always ordered
// ascending by start time
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := events.ListFilter{
		Tag:    q.Get("tag"),
		Search: q.Get("search"),
	}

	if from := q.Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			respondError(w, h.log, apperr.Validationf("from must be an RFC3339 timestamp; got %q", from))
			return
		}
		filter.From = &t
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			respondError(w, h.log, apperr.Validationf("to must be an RFC3339 timestamp; got %q", to))
			return
		}
		filter.To = &t
	}
	filter.Page, filter.PageSize = parsePagination(q)

	page, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// CreateEvent creates a new event
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondError(w, h.log, apperr.Validation(validation.Describe(err), nil))
		return
	}

	req.Name = validation.SanitizeText(req.Name)
	if req.Name == "" {
		respondError(w, h.log, apperr.Validationf("name is required and must be non-empty"))
		return
	}

	event, err := h.svc.Create(r.Context(), events.CreateInput{
		Name:        req.Name,
		Description: validation.SanitizeText(req.Description),
		Location:    validation.SanitizeText(req.Location),
		StartTime:   *req.StartTime,
		EndTime:     req.EndTime,
		AllDay:      req.AllDay,
		Tags:        req.Tags,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, event)
}

// GetEvent retrieves an event by ID
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	event, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// UpdateEvent applies a partial update to an existing event
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondError(w, h.log, apperr.Validation(validation.Describe(err), nil))
		return
	}

	if req.Name != nil {
		sanitized := validation.SanitizeText(*req.Name)
		if sanitized == "" {
			respondError(w, h.log, apperr.Validationf("name must be non-empty"))
			return
		}
		req.Name = &sanitized
	}

	event, err := h.svc.Update(r.Context(), id, events.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		AllDay:      req.AllDay,
		Tags:        req.Tags,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, event)
}

// DeleteEvent deletes an event
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
