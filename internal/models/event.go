package models

import (
	"time"
)

// Event represents a calendar event
type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	AllDay      bool       `json:"allDay"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Clone returns an independent copy of the event.
func (e Event) Clone() Event {
	c := e
	if e.EndTime != nil {
		end := *e.EndTime
		c.EndTime = &end
	}
	if e.Tags != nil {
		c.Tags = append([]string(nil), e.Tags...)
	}
	return c
}

// CloneEvents clones a slice of events.
func CloneEvents(events []Event) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}

// ActiveAt reports whether the event is in progress at the reference instant.
// All-day events match any instant on their start date; timed events match
// when start <= ref <= end, with a missing end treated as open-ended.
func (e Event) ActiveAt(ref time.Time) bool {
	if e.AllDay {
		start := e.StartTime.In(ref.Location())
		y1, m1, d1 := start.Date()
		y2, m2, d2 := ref.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	}
	if ref.Before(e.StartTime) {
		return false
	}
	if e.EndTime != nil && ref.After(*e.EndTime) {
		return false
	}
	return true
}
