package models

import (
	"testing"
	"time"
)

func TestEventActiveAt(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		event Event
		ref   time.Time
		want  bool
	}{
		{
			name:  "timed before start",
			event: Event{StartTime: start, EndTime: &end},
			ref:   start.Add(-time.Minute),
			want:  false,
		},
		{
			name:  "timed at start",
			event: Event{StartTime: start, EndTime: &end},
			ref:   start,
			want:  true,
		},
		{
			name:  "timed between",
			event: Event{StartTime: start, EndTime: &end},
			ref:   start.Add(30 * time.Minute),
			want:  true,
		},
		{
			name:  "timed at end",
			event: Event{StartTime: start, EndTime: &end},
			ref:   end,
			want:  true,
		},
		{
			name:  "timed after end",
			event: Event{StartTime: start, EndTime: &end},
			ref:   end.Add(time.Second),
			want:  false,
		},
		{
			name:  "open-ended stays active",
			event: Event{StartTime: start},
			ref:   start.Add(48 * time.Hour),
			want:  true,
		},
		{
			name:  "all-day matches any instant on the date",
			event: Event{StartTime: start, AllDay: true},
			ref:   time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC),
			want:  true,
		},
		{
			name:  "all-day does not match the day after",
			event: Event{StartTime: start, AllDay: true},
			ref:   time.Date(2026, 3, 11, 1, 0, 0, 0, time.UTC),
			want:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.event.ActiveAt(tt.ref); got != tt.want {
				t.Errorf("ActiveAt(%v) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestTaskCloneIndependence(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	est := 45
	orig := Task{
		ID:               "t1",
		Title:            "original",
		DueDate:          &due,
		EstimatedMinutes: &est,
		Tags:             []string{"a", "b"},
	}

	clone := orig.Clone()
	*clone.DueDate = clone.DueDate.Add(time.Hour)
	*clone.EstimatedMinutes = 99
	clone.Tags[0] = "mutated"

	if !orig.DueDate.Equal(due) {
		t.Error("clone mutation leaked into original due date")
	}
	if *orig.EstimatedMinutes != 45 {
		t.Error("clone mutation leaked into original estimate")
	}
	if orig.Tags[0] != "a" {
		t.Error("clone mutation leaked into original tags")
	}
}

func TestEventCloneIndependence(t *testing.T) {
	t.Parallel()

	end := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	orig := Event{ID: "e1", EndTime: &end, Tags: []string{"x"}}

	clone := orig.Clone()
	*clone.EndTime = clone.EndTime.Add(time.Hour)
	clone.Tags[0] = "mutated"

	if !orig.EndTime.Equal(end) {
		t.Error("clone mutation leaked into original end time")
	}
	if orig.Tags[0] != "x" {
		t.Error("clone mutation leaked into original tags")
	}
}
