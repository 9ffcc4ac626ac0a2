// Package stats composes the task and event query engines into the overview
// and focus-recommendation summaries.
package stats

import (
	"context"
	"time"

	"github.com/agendahq/agenda-api/internal/models"
	"github.com/agendahq/agenda-api/internal/services/events"
	"github.com/agendahq/agenda-api/internal/services/tasks"
)

// listLimit bounds the record lists embedded in the overview.
const listLimit = 5

// Service derives statistics from the two query engines.
type Service struct {
	tasks  *tasks.Service
	events *events.Service
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a statistics service over the given engines.
func NewService(taskSvc *tasks.Service, eventSvc *events.Service, opts ...Option) *Service {
	s := &Service{tasks: taskSvc, events: eventSvc, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TaskStats summarizes the task collection.
type TaskStats struct {
	Total    int                       `json:"total"`
	ByStatus map[models.TaskStatus]int `json:"byStatus"`
	Overdue  int                       `json:"overdue"`
}

// EventStats summarizes the event collection.
type EventStats struct {
	Upcoming int `json:"upcoming"`
	Active   int `json:"active"`
}

// Overview is a point-in-time snapshot of both collections: counts plus
// short lists of the most relevant records (full objects, not ids).
type Overview struct {
	Tasks          TaskStats      `json:"tasks"`
	Events         EventStats     `json:"events"`
	UpcomingTasks  []models.Task  `json:"upcomingTasks"`
	OverdueTasks   []models.Task  `json:"overdueTasks"`
	UpcomingEvents []models.Event `json:"upcomingEvents"`
	ActiveEvents   []models.Event `json:"activeEvents"`
}

// FocusTask is the projection of the most urgent task.
type FocusTask struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	DueDate  *time.Time `json:"dueDate"`
	Priority int        `json:"priority"`
}

// FocusEvent is the projection of the nearest upcoming event.
type FocusEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
}

// Focus is the focus recommendation. Fields are null when no qualifying
// record exists.
type Focus struct {
	NextTask           *FocusTask  `json:"nextTask"`
	NextEvent          *FocusEvent `json:"nextEvent"`
	FocusWindowMinutes *int        `json:"focusWindowMinutes"`
}

// Overview builds the combined snapshot.
func (s *Service) Overview(ctx context.Context) Overview {
	now := s.now()

	byStatus := s.tasks.StatusSummary(ctx)
	total := 0
	for _, n := range byStatus {
		total += n
	}

	overdueTasks := s.tasks.Overdue(ctx)
	upcomingEvents := s.events.Upcoming(ctx, 0)
	activeEvents := s.events.Active(ctx, now)

	return Overview{
		Tasks: TaskStats{
			Total:    total,
			ByStatus: byStatus,
			Overdue:  len(overdueTasks),
		},
		Events: EventStats{
			Upcoming: len(upcomingEvents),
			Active:   len(activeEvents),
		},
		UpcomingTasks:  s.tasks.Upcoming(ctx, listLimit),
		OverdueTasks:   truncateTasks(overdueTasks, listLimit),
		UpcomingEvents: truncateEvents(upcomingEvents, listLimit),
		ActiveEvents:   truncateEvents(activeEvents, listLimit),
	}
}

// Focus picks the single most urgent open task and the nearest
// future-or-present event. Urgency is ascending due date with undated tasks
// sorting last, ties broken by higher priority. The focus window is the
// whole-minute countdown to the next event, clamped at zero.
func (s *Service) Focus(ctx context.Context) Focus {
	var focus Focus

	if best := pickUrgent(s.tasks.Open(ctx)); best != nil {
		focus.NextTask = &FocusTask{
			ID:       best.ID,
			Title:    best.Title,
			DueDate:  best.DueDate,
			Priority: best.Priority,
		}
	}

	now := s.now()
	upcoming := s.events.Upcoming(ctx, 1)
	if len(upcoming) > 0 {
		next := upcoming[0]
		focus.NextEvent = &FocusEvent{
			ID:        next.ID,
			Name:      next.Name,
			StartTime: next.StartTime,
		}
		minutes := int(next.StartTime.Sub(now).Minutes())
		if minutes < 0 {
			minutes = 0
		}
		focus.FocusWindowMinutes = &minutes
	}

	return focus
}

// pickUrgent returns the most urgent task from candidates, or nil when
// candidates is empty.
func pickUrgent(candidates []models.Task) *models.Task {
	var best *models.Task
	for i := range candidates {
		c := &candidates[i]
		if best == nil || moreUrgent(c, best) {
			best = c
		}
	}
	return best
}

// moreUrgent reports whether a should be recommended over b: earlier due
// date wins, an absent due date is treated as infinitely far away, and equal
// due dates fall back to higher priority.
func moreUrgent(a, b *models.Task) bool {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return a.Priority > b.Priority
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	case a.DueDate.Equal(*b.DueDate):
		return a.Priority > b.Priority
	default:
		return a.DueDate.Before(*b.DueDate)
	}
}

func truncateTasks(tasks []models.Task, limit int) []models.Task {
	if len(tasks) > limit {
		return tasks[:limit]
	}
	return tasks
}

func truncateEvents(events []models.Event, limit int) []models.Event {
	if len(events) > limit {
		return events[:limit]
	}
	return events
}
