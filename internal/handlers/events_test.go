package handlers

import (
	"net/http"
	"strings"
	"testing"
)

func createEvent(t *testing.T, r http.Handler, body string) map[string]any {
	t.Helper()
	rec := doJSON(t, r, "POST", "/api/events", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create event: status %d, body %s", rec.Code, rec.Body.String())
	}
	var event map[string]any
	decodeBody(t, rec, &event)
	return event
}

func TestCreateEvent(t *testing.T) {
	r := newTestRouter(t)

	event := createEvent(t, r, `{"name": "kickoff", "startTime": "2026-04-01T09:00:00Z", "location": "hq"}`)
	if event["id"] == "" {
		t.Error("expected generated id")
	}
	if event["name"] != "kickoff" {
		t.Errorf("name = %v, want kickoff", event["name"])
	}
	if event["allDay"] != false {
		t.Errorf("allDay = %v, want false", event["allDay"])
	}
}

func TestCreateEventValidation(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name        string
		body        string
		wantMention string
	}{
		{name: "missing name", body: `{"startTime": "2026-04-01T09:00:00Z"}`, wantMention: "name"},
		{name: "missing start time", body: `{"name": "x"}`, wantMention: "startTime"},
		{
			name:        "end before start",
			body:        `{"name": "x", "startTime": "2026-04-01T10:00:00Z", "endTime": "2026-04-01T09:00:00Z"}`,
			wantMention: "endTime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, "POST", "/api/events", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			var resp map[string]any
			decodeBody(t, rec, &resp)
			msg, _ := resp["error"].(string)
			if !strings.Contains(msg, tt.wantMention) {
				t.Errorf("error %q does not mention %q", msg, tt.wantMention)
			}
		})
	}
}

func TestUpdateEventChronology(t *testing.T) {
	r := newTestRouter(t)
	created := createEvent(t, r, `{"name": "movable", "startTime": "2026-04-01T09:00:00Z", "endTime": "2026-04-01T10:00:00Z"}`)
	id := created["id"].(string)

	// Pushing the start past the stored end must fail.
	rec := doJSON(t, r, "PATCH", "/api/events/"+id, `{"startTime": "2026-04-01T11:00:00Z"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, "PATCH", "/api/events/"+id, `{"startTime": "2026-04-01T11:00:00Z", "endTime": "2026-04-01T12:00:00Z"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestDeleteEvent(t *testing.T) {
	r := newTestRouter(t)
	created := createEvent(t, r, `{"name": "gone", "startTime": "2026-04-01T09:00:00Z"}`)
	id := created["id"].(string)

	rec := doJSON(t, r, "DELETE", "/api/events/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	rec = doJSON(t, r, "GET", "/api/events/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 after delete", rec.Code)
	}
}

func TestListEventsWindowAndOrder(t *testing.T) {
	r := newTestRouter(t)

	createEvent(t, r, `{"name": "late", "startTime": "2026-04-03T09:00:00Z"}`)
	createEvent(t, r, `{"name": "early", "startTime": "2026-04-01T09:00:00Z"}`)
	createEvent(t, r, `{"name": "middle", "startTime": "2026-04-02T09:00:00Z"}`)

	rec := doJSON(t, r, "GET", "/api/events?from=2026-04-01T12:00:00Z&to=2026-04-02T12:00:00Z", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var page struct {
		Items []map[string]any `json:"items"`
	}
	decodeBody(t, rec, &page)
	if len(page.Items) != 1 || page.Items[0]["name"] != "middle" {
		t.Errorf("items = %v, want just middle", page.Items)
	}

	// Without bounds every event comes back ascending by start.
	rec = doJSON(t, r, "GET", "/api/events", "")
	decodeBody(t, rec, &page)
	if len(page.Items) != 3 || page.Items[0]["name"] != "early" || page.Items[2]["name"] != "late" {
		t.Errorf("unexpected order: %v", page.Items)
	}
}

func TestListEventsRejectsBadTimestamps(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/events?from=tomorrow", "/api/events?to=2026-13-99"} {
		rec := doJSON(t, r, "GET", path, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s: status = %d, want 400", path, rec.Code)
		}
	}
}
