package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agendahq/agenda-api/internal/services/events"
	"github.com/agendahq/agenda-api/internal/services/stats"
	"github.com/agendahq/agenda-api/internal/services/tasks"
	"github.com/agendahq/agenda-api/internal/store"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// newTestRouter wires the full API surface against an ephemeral store with a
// frozen clock, mirroring the server composition.
func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	st := store.New("", zap.NewNop())
	if err := st.Initialize(); err != nil {
		t.Fatalf("initialize store: %v", err)
	}

	log := zap.NewNop()
	clock := func() time.Time { return fixedNow }
	taskSvc := tasks.NewService(st, log, tasks.WithClock(clock))
	eventSvc := events.NewService(st, log, events.WithClock(clock))
	statsSvc := stats.NewService(taskSvc, eventSvc, stats.WithClock(clock))

	r := mux.NewRouter()
	r.HandleFunc("/", Root).Methods("GET")
	r.HandleFunc("/api/health", NewHealthChecker(st).HealthCheck).Methods("GET")
	NewTaskHandler(taskSvc, log).RegisterRoutes(r.PathPrefix("/api/tasks").Subrouter())
	NewEventHandler(eventSvc, log).RegisterRoutes(r.PathPrefix("/api/events").Subrouter())
	NewStatsHandler(statsSvc, log).RegisterRoutes(r.PathPrefix("/api/statistics").Subrouter())
	r.NotFoundHandler = NotFound(log)
	r.MethodNotAllowedHandler = MethodNotAllowed(log)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func createTask(t *testing.T, r http.Handler, body string) map[string]any {
	t.Helper()
	rec := doJSON(t, r, "POST", "/api/tasks", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: status %d, body %s", rec.Code, rec.Body.String())
	}
	var task map[string]any
	decodeBody(t, rec, &task)
	return task
}

func TestCreateTaskDefaults(t *testing.T) {
	r := newTestRouter(t)

	task := createTask(t, r, `{"title": "write tests"}`)

	if task["id"] == "" {
		t.Error("expected generated id")
	}
	if task["status"] != "pending" {
		t.Errorf("status = %v, want pending", task["status"])
	}
	if task["priority"] != float64(3) {
		t.Errorf("priority = %v, want 3", task["priority"])
	}
	if _, ok := task["completedAt"]; ok {
		t.Error("completedAt must be absent on a pending task")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantMention string
	}{
		{name: "missing title", body: `{}`, wantStatus: 400, wantMention: "title"},
		{name: "empty title", body: `{"title": ""}`, wantStatus: 400, wantMention: "title"},
		{name: "whitespace title", body: `{"title": "   "}`, wantStatus: 400, wantMention: "title"},
		{name: "priority out of range", body: `{"title": "x", "priority": 9}`, wantStatus: 400, wantMention: "priority"},
		{name: "unknown status", body: `{"title": "x", "status": "archived"}`, wantStatus: 400, wantMention: "status"},
		{name: "estimate out of range", body: `{"title": "x", "estimatedMinutes": 9999}`, wantStatus: 400, wantMention: "estimatedMinutes"},
		{name: "malformed json", body: `{"title": `, wantStatus: 400, wantMention: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, "POST", "/api/tasks", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var resp map[string]any
			decodeBody(t, rec, &resp)
			msg, _ := resp["error"].(string)
			if msg == "" {
				t.Fatal("expected error message in response")
			}
			if !strings.Contains(msg, tt.wantMention) {
				t.Errorf("error %q does not mention %q", msg, tt.wantMention)
			}
		})
	}
}

func TestGetTask(t *testing.T) {
	r := newTestRouter(t)
	created := createTask(t, r, `{"title": "fetch me"}`)

	rec := doJSON(t, r, "GET", "/api/tasks/"+created["id"].(string), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var task map[string]any
	decodeBody(t, rec, &task)
	if task["title"] != "fetch me" {
		t.Errorf("title = %v, want fetch me", task["title"])
	}
}

func TestGetTaskNotFound(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "GET", "/api/tasks/nonexistent", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateTask(t *testing.T) {
	r := newTestRouter(t)
	created := createTask(t, r, `{"title": "before", "priority": 2}`)
	id := created["id"].(string)

	rec := doJSON(t, r, "PATCH", "/api/tasks/"+id, `{"title": "after"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var task map[string]any
	decodeBody(t, rec, &task)
	if task["title"] != "after" {
		t.Errorf("title = %v, want after", task["title"])
	}
	if task["priority"] != float64(2) {
		t.Errorf("priority = %v, want 2 (absent field must be untouched)", task["priority"])
	}
}

func TestCompleteTaskFlow(t *testing.T) {
	r := newTestRouter(t)
	created := createTask(t, r, `{"title": "finish me"}`)
	id := created["id"].(string)

	rec := doJSON(t, r, "POST", "/api/tasks/"+id+"/complete", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var task map[string]any
	decodeBody(t, rec, &task)
	if task["status"] != "completed" {
		t.Errorf("status = %v, want completed", task["status"])
	}
	if task["completedAt"] == nil {
		t.Error("completedAt must be set after completion")
	}

	rec = doJSON(t, r, "POST", "/api/tasks/missing/complete", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("completing a missing task: status = %d, want 404", rec.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	r := newTestRouter(t)
	created := createTask(t, r, `{"title": "delete me"}`)
	id := created["id"].(string)

	rec := doJSON(t, r, "DELETE", "/api/tasks/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = doJSON(t, r, "DELETE", "/api/tasks/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rec.Code)
	}
}

func TestListTasksFilterAndPagination(t *testing.T) {
	r := newTestRouter(t)

	for i := 0; i < 3; i++ {
		createTask(t, r, fmt.Sprintf(`{"title": "open %d"}`, i))
	}
	createTask(t, r, `{"title": "finished", "status": "completed"}`)

	rec := doJSON(t, r, "GET", "/api/tasks?status=pending&pageSize=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var page struct {
		Items      []map[string]any `json:"items"`
		Pagination struct {
			Total      int `json:"total"`
			Page       int `json:"page"`
			PageSize   int `json:"pageSize"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	decodeBody(t, rec, &page)

	if len(page.Items) != 2 {
		t.Errorf("items = %d, want 2", len(page.Items))
	}
	if page.Pagination.Total != 3 || page.Pagination.TotalPages != 2 {
		t.Errorf("pagination = %+v, want total 3 totalPages 2", page.Pagination)
	}
}

func TestListTasksRejectsBadParameters(t *testing.T) {
	r := newTestRouter(t)

	paths := []string{
		"/api/tasks?priority=high",
		"/api/tasks?overdue=maybe",
		"/api/tasks?status=archived",
		"/api/tasks?sortBy=color",
		"/api/tasks?sortOrder=sideways",
	}
	for _, path := range paths {
		rec := doJSON(t, r, "GET", path, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestMethodNotAllowedOnMatchedPath(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "PUT", "/api/tasks", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	var resp map[string]any
	decodeBody(t, rec, &resp)
	if resp["error"] == "" {
		t.Error("expected error message")
	}
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "GET", "/api/unknown", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}
