// Package events implements the event query engine: CRUD, the time-window
// list filters, and the derived upcoming/active views.
package events

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/agendahq/agenda-api/internal/apperr"
	"github.com/agendahq/agenda-api/internal/models"
	"github.com/agendahq/agenda-api/internal/services/paging"
	"github.com/agendahq/agenda-api/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service executes event operations against the document store.
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

// NewService creates an event service backed by st.
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

// CreateInput carries the fields accepted when creating an event.
type CreateInput struct {
	Name        string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     *time.Time
	AllDay      bool
	Tags        []string
}

// UpdateInput carries a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Description *string
	Location    *string
	StartTime   *time.Time
	EndTime     *time.Time
	AllDay      *bool
	Tags        []string
}

// ListFilter selects and pages an event listing. The from bound keeps events
// whose end time (or start time when no end is set) is at or after from; the
// to bound keeps events starting at or before to.
type ListFilter struct {
	Tag      string
	From     *time.Time
	To       *time.Time
	Search   string
	Page     int
	PageSize int
}

// Page is one page of a filtered event listing, always ordered ascending by
// start time.
type Page struct {
	Items      []models.Event    `json:"items"`
	Pagination paging.Pagination `json:"pagination"`
}

// Create assigns a fresh id, stamps timestamps, appends the event, persists,
// and returns a copy. End time, when present, must not precede start time;
// the chronology is enforced here, at write time.
func (s *Service) Create(ctx context.Context, input CreateInput) (models.Event, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Event{}, apperr.Validationf("name is required and must be non-empty")
	}
	if input.StartTime.IsZero() {
		return models.Event{}, apperr.Validationf("startTime is required")
	}
	if input.EndTime != nil && input.EndTime.Before(input.StartTime) {
		return models.Event{}, apperr.Validationf("endTime must not be earlier than startTime")
	}

	now := s.now().UTC()
	event := models.Event{
		ID:          uuid.NewString(),
		Name:        name,
		Description: input.Description,
		Location:    input.Location,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		AllDay:      input.AllDay,
		Tags:        models.NormalizeTags(input.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.Update(func(snap *store.Snapshot) error {
		snap.Events = append(snap.Events, event.Clone())
		return nil
	})
	if err != nil {
		return models.Event{}, err
	}

	s.log.Debug("event_created", zap.String("event_id", event.ID))
	return event, nil
}

// Get returns a copy of the event with the given id.
func (s *Service) Get(ctx context.Context, id string) (models.Event, error) {
	var (
		event models.Event
		found bool
	)
	s.store.View(func(snap *store.Snapshot) {
		for _, e := range snap.Events {
			if e.ID == id {
				event = e.Clone()
				found = true
				return
			}
		}
	})
	if !found {
		return models.Event{}, apperr.NotFound("event", id)
	}
	return event, nil
}

// Update merges the partial fields onto the stored event and restamps
// updatedAt. The start/end chronology is re-checked against the merged
// values.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (models.Event, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return models.Event{}, apperr.Validationf("name must be non-empty")
	}

	var updated models.Event
	err := s.store.Update(func(snap *store.Snapshot) error {
		for i := range snap.Events {
			if snap.Events[i].ID != id {
				continue
			}
			e := &snap.Events[i]

			start := e.StartTime
			if input.StartTime != nil {
				start = *input.StartTime
			}
			end := e.EndTime
			if input.EndTime != nil {
				end = input.EndTime
			}
			if end != nil && end.Before(start) {
				return apperr.Validationf("endTime must not be earlier than startTime")
			}

			if input.Name != nil {
				e.Name = strings.TrimSpace(*input.Name)
			}
			if input.Description != nil {
				e.Description = *input.Description
			}
			if input.Location != nil {
				e.Location = *input.Location
			}
			e.StartTime = start
			e.EndTime = end
			if input.AllDay != nil {
				e.AllDay = *input.AllDay
			}
			if input.Tags != nil {
				e.Tags = models.NormalizeTags(input.Tags)
			}
			e.UpdatedAt = s.now().UTC()
			updated = e.Clone()
			return nil
		}
		return apperr.NotFound("event", id)
	})
	if err != nil {
		return models.Event{}, err
	}
	return updated, nil
}

// Delete removes the event with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Update(func(snap *store.Snapshot) error {
		for i := range snap.Events {
			if snap.Events[i].ID == id {
				snap.Events = append(snap.Events[:i], snap.Events[i+1:]...)
				return nil
			}
		}
		return apperr.NotFound("event", id)
	})
}

// List filters by tag, time window, and free text, sorts ascending by start
// time, and paginates.
func (s *Service) List(ctx context.Context, filter ListFilter) (Page, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var matched []models.Event
	s.store.View(func(snap *store.Snapshot) {
		for _, e := range snap.Events {
			if filter.Tag != "" && !models.HasTag(e.Tags, filter.Tag) {
				continue
			}
			if filter.From != nil {
				effectiveEnd := e.StartTime
				if e.EndTime != nil {
					effectiveEnd = *e.EndTime
				}
				if effectiveEnd.Before(*filter.From) {
					continue
				}
			}
			if filter.To != nil && e.StartTime.After(*filter.To) {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(e.Name), search) &&
				!strings.Contains(strings.ToLower(e.Description), search) &&
				!strings.Contains(strings.ToLower(e.Location), search) {
				continue
			}
			matched = append(matched, e.Clone())
		}
	})
	if matched == nil {
		matched = []models.Event{}
	}

	sortByStartAsc(matched)

	items, pagination := paging.Slice(matched, filter.Page, filter.PageSize)
	return Page{Items: items, Pagination: pagination}, nil
}

// Upcoming returns events starting at or after now, ascending by start time,
// truncated to limit.
func (s *Service) Upcoming(ctx context.Context, limit int) []models.Event {
	now := s.now()
	var out []models.Event
	s.store.View(func(snap *store.Snapshot) {
		for _, e := range snap.Events {
			if e.StartTime.Before(now) {
				continue
			}
			out = append(out, e.Clone())
		}
	})
	sortByStartAsc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []models.Event{}
	}
	return out
}

// Active returns events in progress at the reference instant, ascending by
// start time.
func (s *Service) Active(ctx context.Context, ref time.Time) []models.Event {
	var out []models.Event
	s.store.View(func(snap *store.Snapshot) {
		for _, e := range snap.Events {
			if e.ActiveAt(ref) {
				out = append(out, e.Clone())
			}
		}
	})
	sortByStartAsc(out)
	if out == nil {
		out = []models.Event{}
	}
	return out
}

func sortByStartAsc(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
}
