package tasks

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/agendahq/agenda-api/internal/apperr"
	"github.com/agendahq/agenda-api/internal/models"
	"github.com/agendahq/agenda-api/internal/services/paging"
	"github.com/agendahq/agenda-api/internal/store"
)

// Sortable fields for task lists.
const (
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
	SortByDueDate   = "dueDate"
	SortByPriority  = "priority"
	SortByTitle     = "title"
	SortByStatus    = "status"
)

const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// ListFilter selects, orders, and pages a task listing. Nil or zero fields
// are skipped.
type ListFilter struct {
	Status    *models.TaskStatus
	Priority  *int
	Tag       string
	Overdue   *bool
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// Page is one page of a filtered task listing.
type Page struct {
	Items      []models.Task     `json:"items"`
	Pagination paging.Pagination `json:"pagination"`
}

// List applies filters in a fixed order (status, priority, tag, overdue,
// search), sorts with a stable tie-break, and paginates.
func (s *Service) List(ctx context.Context, filter ListFilter) (Page, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return Page{}, apperr.Validationf("status must be one of pending, in_progress, completed, cancelled; got %q", *filter.Status)
	}
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = SortByCreatedAt
	}
	switch sortBy {
	case SortByCreatedAt, SortByUpdatedAt, SortByDueDate, SortByPriority, SortByTitle, SortByStatus:
	default:
		return Page{}, apperr.Validationf("sortBy must be one of createdAt, updatedAt, dueDate, priority, title, status; got %q", filter.SortBy)
	}
	order := filter.SortOrder
	if order == "" {
		order = SortOrderDesc
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return Page{}, apperr.Validationf("sortOrder must be asc or desc; got %q", filter.SortOrder)
	}

	now := s.now()
	var matched []models.Task
	s.collect(&matched, filter, now)

	sortTasks(matched, sortBy, order == SortOrderAsc)

	items, pagination := paging.Slice(matched, filter.Page, filter.PageSize)
	return Page{Items: items, Pagination: pagination}, nil
}

// collect copies every task passing the filter into out.
func (s *Service) collect(out *[]models.Task, filter ListFilter, now time.Time) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	s.store.View(func(snap *store.Snapshot) {
		for _, t := range snap.Tasks {
			if filter.Status != nil && t.Status != *filter.Status {
				continue
			}
			if filter.Priority != nil && t.Priority != *filter.Priority {
				continue
			}
			if filter.Tag != "" && !models.HasTag(t.Tags, filter.Tag) {
				continue
			}
			if filter.Overdue != nil && isOverdue(t, now) != *filter.Overdue {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(t.Title), search) &&
				!strings.Contains(strings.ToLower(t.Description), search) {
				continue
			}
			*out = append(*out, t.Clone())
		}
	})
	if *out == nil {
		*out = []models.Task{}
	}
}

// isOverdue reports whether the task has a past due date and is not in a
// terminal status.
func isOverdue(t models.Task, now time.Time) bool {
	return t.DueDate != nil && !t.Status.Terminal() && t.DueDate.Before(now)
}

// sortTasks orders tasks by field with a stable tie-break: equal keys keep
// their relative order. Priority compares numerically; every other field
// compares lexicographically on its string representation, with absent
// values as the empty string. Times render as RFC3339Nano, which preserves
// chronological order under string comparison.
func sortTasks(tasks []models.Task, field string, asc bool) {
	if field == SortByPriority {
		sort.SliceStable(tasks, func(i, j int) bool {
			if asc {
				return tasks[i].Priority < tasks[j].Priority
			}
			return tasks[i].Priority > tasks[j].Priority
		})
		return
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := taskSortKey(tasks[i], field), taskSortKey(tasks[j], field)
		if asc {
			return a < b
		}
		return a > b
	})
}

func taskSortKey(t models.Task, field string) string {
	switch field {
	case SortByTitle:
		return t.Title
	case SortByStatus:
		return string(t.Status)
	case SortByDueDate:
		if t.DueDate == nil {
			return ""
		}
		return t.DueDate.UTC().Format(time.RFC3339Nano)
	case SortByUpdatedAt:
		return t.UpdatedAt.UTC().Format(time.RFC3339Nano)
	default:
		return t.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
}

// sortByDueDateAsc orders tasks ascending by due date; used by the derived
// overdue and upcoming views, which only contain due-dated tasks.
func sortByDueDateAsc(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(*tasks[j].DueDate)
	})
}
