package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/agendahq/agenda-api/internal/apperr"
	"github.com/agendahq/agenda-api/internal/models"
	"github.com/agendahq/agenda-api/internal/services/tasks"
	"github.com/agendahq/agenda-api/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	svc *tasks.Service
	log *zap.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(svc *tasks.Service, log *zap.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, log: log}
}

// RegisterRoutes registers task routes on the given router.
// The router should already carry the /api/tasks prefix.
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTasks).Methods("GET")
	r.HandleFunc("", h.CreateTask).Methods("POST")
	r.HandleFunc("/{id}", h.GetTask).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateTask).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteTask).Methods("DELETE")
	r.HandleFunc("/{id}/complete", h.CompleteTask).Methods("POST")
}

// MaxTextLength caps free-text fields on create and update requests.
const MaxTextLength = 10000

// CreateTaskRequest represents a create task request
type CreateTaskRequest struct {
	Title            string             `json:"title" validate:"required,min=1,max=500"`
	Description      string             `json:"description" validate:"max=10000"`
	Status           *models.TaskStatus `json:"status" validate:"omitempty,task_status"`
	Priority         *int               `json:"priority" validate:"omitempty,min=1,max=5"`
	DueDate          *time.Time         `json:"dueDate"`
	EstimatedMinutes *int               `json:"estimatedMinutes" validate:"omitempty,min=1,max=1440"`
	Tags             []string           `json:"tags"`
}

// UpdateTaskRequest represents a partial task update. Absent fields are left
// untouched.
type UpdateTaskRequest struct {
	Title            *string            `json:"title" validate:"omitempty,min=1,max=500"`
	Description      *string            `json:"description" validate:"omitempty,max=10000"`
	Status           *models.TaskStatus `json:"status" validate:"omitempty,task_status"`
	Priority         *int               `json:"priority" validate:"omitempty,min=1,max=5"`
	DueDate          *time.Time         `json:"dueDate"`
	EstimatedMinutes *int               `json:"estimatedMinutes" validate:"omitempty,min=1,max=1440"`
	Tags             []string           `json:"tags"`
}

// ListTasks lists tasks with filtering, sorting, and pagination
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := tasks.ListFilter{
		Tag:       q.Get("tag"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	if s := q.Get("status"); s != "" {
		status := models.TaskStatus(s)
		filter.Status = &status
	}
	if p := q.Get("priority"); p != "" {
		priority, err := strconv.Atoi(p)
		if err != nil {
			respondError(w, h.log, apperr.Validationf("priority must be an integer; got %q", p))
			return
		}
		filter.Priority = &priority
	}
	if o := q.Get("overdue"); o != "" {
		overdue, err := strconv.ParseBool(o)
		if err != nil {
			respondError(w, h.log, apperr.Validationf("overdue must be true or false; got %q", o))
			return
		}
		filter.Overdue = &overdue
	}
	filter.Page, filter.PageSize = parsePagination(q)

	page, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondError(w, h.log, apperr.Validation(validation.Describe(err), nil))
		return
	}

	req.Title = validation.SanitizeText(req.Title)
	if req.Title == "" {
		respondError(w, h.log, apperr.Validationf("title is required and must be non-empty"))
		return
	}

	task, err := h.svc.Create(r.Context(), tasks.CreateInput{
		Title:            req.Title,
		Description:      validation.SanitizeText(req.Description),
		Status:           req.Status,
		Priority:         req.Priority,
		DueDate:          req.DueDate,
		EstimatedMinutes: req.EstimatedMinutes,
		Tags:             req.Tags,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// GetTask retrieves a task by ID
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	task, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// UpdateTask applies a partial update to an existing task
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondError(w, h.log, apperr.Validation(validation.Describe(err), nil))
		return
	}

	if req.Title != nil {
		sanitized := validation.SanitizeText(*req.Title)
		if sanitized == "" {
			respondError(w, h.log, apperr.Validationf("title must be non-empty"))
			return
		}
		req.Title = &sanitized
	}
	if req.Description != nil {
		sanitized := validation.SanitizeText(*req.Description)
		req.Description = &sanitized
	}

	task, err := h.svc.Update(r.Context(), id, tasks.UpdateInput{
		Title:            req.Title,
		Description:      req.Description,
		Status:           req.Status,
		Priority:         req.Priority,
		DueDate:          req.DueDate,
		EstimatedMinutes: req.EstimatedMinutes,
		Tags:             req.Tags,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompleteTask marks a task as completed
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	task, err := h.svc.Complete(r.Context(), id)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// parsePagination reads page and pageSize, ignoring malformed values the
// same way unknown filters are ignored; bounds are clamped downstream.
func parsePagination(q map[string][]string) (int, int) {
	get := func(key string) string {
		if vs := q[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}
	page := 0
	if p := get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	pageSize := 0
	if ps := get("pageSize"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 {
			pageSize = parsed
		}
	}
	return page, pageSize
}
