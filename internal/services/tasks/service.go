// Package tasks implements the task query engine: CRUD, filtering, sorting,
// pagination, and the derived overdue/upcoming/status-summary views.
package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/agendahq/agenda-api/internal/apperr"
	"github.com/agendahq/agenda-api/internal/models"
	"github.com/agendahq/agenda-api/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service executes task operations against the document store. Every read
// returns independent copies of the stored records.
type Service struct {
	store *store.Store
	log   *zap.Logger
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a task service backed by st.
func NewService(st *store.Store, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{store: st, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput carries the fields accepted when creating a task. Nil optional
// fields take their defaults.
type CreateInput struct {
	Title            string
	Description      string
	Status           *models.TaskStatus
	Priority         *int
	DueDate          *time.Time
	EstimatedMinutes *int
	Tags             []string
}

// UpdateInput carries a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Title            *string
	Description      *string
	Status           *models.TaskStatus
	Priority         *int
	DueDate          *time.Time
	EstimatedMinutes *int
	Tags             []string
}

// Create assigns a fresh id, fills defaults, stamps timestamps, appends the
// task, persists, and returns a copy.
func (s *Service) Create(ctx context.Context, input CreateInput) (models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Task{}, apperr.Validationf("title is required and must be non-empty")
	}

	status := models.TaskStatusPending
	if input.Status != nil {
		if !input.Status.Valid() {
			return models.Task{}, apperr.Validationf("status must be one of pending, in_progress, completed, cancelled; got %q", *input.Status)
		}
		status = *input.Status
	}

	priority := models.DefaultTaskPriority
	if input.Priority != nil {
		if *input.Priority < 1 || *input.Priority > 5 {
			return models.Task{}, apperr.Validationf("priority must be between 1 and 5; got %d", *input.Priority)
		}
		priority = *input.Priority
	}

	if input.EstimatedMinutes != nil {
		if *input.EstimatedMinutes < 1 || *input.EstimatedMinutes > models.MaxEstimatedMinutes {
			return models.Task{}, apperr.Validationf("estimatedMinutes must be between 1 and %d; got %d", models.MaxEstimatedMinutes, *input.EstimatedMinutes)
		}
	}

	now := s.now().UTC()
	task := models.Task{
		ID:               uuid.NewString(),
		Title:            title,
		Description:      input.Description,
		Status:           status,
		Priority:         priority,
		DueDate:          input.DueDate,
		EstimatedMinutes: input.EstimatedMinutes,
		Tags:             models.NormalizeTags(input.Tags),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if status == models.TaskStatusCompleted {
		completed := now
		task.CompletedAt = &completed
	}

	err := s.store.Update(func(snap *store.Snapshot) error {
		snap.Tasks = append(snap.Tasks, task.Clone())
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}

	s.log.Debug("task_created",
		zap.String("task_id", task.ID),
		zap.String("status", string(task.Status)),
	)
	return task, nil
}

// Get returns a copy of the task with the given id.
func (s *Service) Get(ctx context.Context, id string) (models.Task, error) {
	var (
		task  models.Task
		found bool
	)
	s.store.View(func(snap *store.Snapshot) {
		for _, t := range snap.Tasks {
			if t.ID == id {
				task = t.Clone()
				found = true
				return
			}
		}
	})
	if !found {
		return models.Task{}, apperr.NotFound("task", id)
	}
	return task, nil
}

// Update merges the partial fields onto the stored task and restamps
// updatedAt. Setting status to "completed" keeps an existing completedAt or
// stamps now; setting any other status clears completedAt.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (models.Task, error) {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return models.Task{}, apperr.Validationf("title must be non-empty")
	}
	if input.Status != nil && !input.Status.Valid() {
		return models.Task{}, apperr.Validationf("status must be one of pending, in_progress, completed, cancelled; got %q", *input.Status)
	}
	if input.Priority != nil && (*input.Priority < 1 || *input.Priority > 5) {
		return models.Task{}, apperr.Validationf("priority must be between 1 and 5; got %d", *input.Priority)
	}
	if input.EstimatedMinutes != nil && (*input.EstimatedMinutes < 1 || *input.EstimatedMinutes > models.MaxEstimatedMinutes) {
		return models.Task{}, apperr.Validationf("estimatedMinutes must be between 1 and %d; got %d", models.MaxEstimatedMinutes, *input.EstimatedMinutes)
	}

	var updated models.Task
	err := s.store.Update(func(snap *store.Snapshot) error {
		for i := range snap.Tasks {
			if snap.Tasks[i].ID != id {
				continue
			}
			t := &snap.Tasks[i]
			if input.Title != nil {
				t.Title = strings.TrimSpace(*input.Title)
			}
			if input.Description != nil {
				t.Description = *input.Description
			}
			if input.Priority != nil {
				t.Priority = *input.Priority
			}
			if input.DueDate != nil {
				due := *input.DueDate
				t.DueDate = &due
			}
			if input.EstimatedMinutes != nil {
				est := *input.EstimatedMinutes
				t.EstimatedMinutes = &est
			}
			if input.Tags != nil {
				t.Tags = models.NormalizeTags(input.Tags)
			}
			if input.Status != nil {
				s.applyStatus(t, *input.Status)
			}
			t.UpdatedAt = s.now().UTC()
			updated = t.Clone()
			return nil
		}
		return apperr.NotFound("task", id)
	})
	if err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// applyStatus transitions the task status, maintaining the invariant that
// completedAt is non-null iff the status is "completed".
func (s *Service) applyStatus(t *models.Task, status models.TaskStatus) {
	if status == models.TaskStatusCompleted {
		if t.CompletedAt == nil {
			completed := s.now().UTC()
			t.CompletedAt = &completed
		}
	} else {
		t.CompletedAt = nil
	}
	t.Status = status
}

// Delete removes the task with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Update(func(snap *store.Snapshot) error {
		for i := range snap.Tasks {
			if snap.Tasks[i].ID == id {
				snap.Tasks = append(snap.Tasks[:i], snap.Tasks[i+1:]...)
				return nil
			}
		}
		return apperr.NotFound("task", id)
	})
}

// Complete force-sets status=completed and stamps both completedAt and
// updatedAt to now.
func (s *Service) Complete(ctx context.Context, id string) (models.Task, error) {
	var completed models.Task
	err := s.store.Update(func(snap *store.Snapshot) error {
		for i := range snap.Tasks {
			if snap.Tasks[i].ID != id {
				continue
			}
			now := s.now().UTC()
			t := &snap.Tasks[i]
			t.Status = models.TaskStatusCompleted
			t.CompletedAt = &now
			t.UpdatedAt = now
			completed = t.Clone()
			return nil
		}
		return apperr.NotFound("task", id)
	})
	if err != nil {
		return models.Task{}, err
	}
	return completed, nil
}

// Upcoming returns non-terminal tasks with a future-or-now due date,
// ascending by due date, truncated to limit.
func (s *Service) Upcoming(ctx context.Context, limit int) []models.Task {
	now := s.now()
	var out []models.Task
	s.store.View(func(snap *store.Snapshot) {
		for _, t := range snap.Tasks {
			if t.DueDate == nil || t.Status.Terminal() {
				continue
			}
			if t.DueDate.Before(now) {
				continue
			}
			out = append(out, t.Clone())
		}
	})
	sortByDueDateAsc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []models.Task{}
	}
	return out
}

// Overdue returns non-terminal tasks whose due date is in the past,
// ascending by due date, unbounded.
func (s *Service) Overdue(ctx context.Context) []models.Task {
	now := s.now()
	var out []models.Task
	s.store.View(func(snap *store.Snapshot) {
		for _, t := range snap.Tasks {
			if t.DueDate == nil || t.Status.Terminal() {
				continue
			}
			if !t.DueDate.Before(now) {
				continue
			}
			out = append(out, t.Clone())
		}
	})
	sortByDueDateAsc(out)
	if out == nil {
		out = []models.Task{}
	}
	return out
}

// Open returns copies of all non-terminal tasks in insertion order.
func (s *Service) Open(ctx context.Context) []models.Task {
	var out []models.Task
	s.store.View(func(snap *store.Snapshot) {
		for _, t := range snap.Tasks {
			if t.Status.Terminal() {
				continue
			}
			out = append(out, t.Clone())
		}
	})
	if out == nil {
		out = []models.Task{}
	}
	return out
}

// StatusSummary counts tasks per status. Every status key is present,
// zero-filled.
func (s *Service) StatusSummary(ctx context.Context) map[models.TaskStatus]int {
	summary := make(map[models.TaskStatus]int, len(models.TaskStatuses))
	for _, status := range models.TaskStatuses {
		summary[status] = 0
	}
	s.store.View(func(snap *store.Snapshot) {
		for _, t := range snap.Tasks {
			summary[t.Status]++
		}
	})
	return summary
}

// Total returns the number of stored tasks.
func (s *Service) Total(ctx context.Context) int {
	var n int
	s.store.View(func(snap *store.Snapshot) {
		n = len(snap.Tasks)
	})
	return n
}
