package models

import (
	"time"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// TaskStatuses lists every valid status in a stable order, used for
// zero-filled summaries.
var TaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusCancelled,
}

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether s is a terminal status. Terminal tasks are
// excluded from overdue and upcoming queries.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// DefaultTaskPriority is assigned when a create request omits priority.
const DefaultTaskPriority = 3

// MaxEstimatedMinutes caps a task estimate at one day.
const MaxEstimatedMinutes = 1440

// Task represents a task item
type Task struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Status           TaskStatus `json:"status"`
	Priority         int        `json:"priority"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
	EstimatedMinutes *int       `json:"estimatedMinutes,omitempty"`
	Tags             []string   `json:"tags"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

// Clone returns an independent copy of the task. Reads from the store hand
// out clones so callers can never mutate store state through a result.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	if t.EstimatedMinutes != nil {
		est := *t.EstimatedMinutes
		c.EstimatedMinutes = &est
	}
	if t.CompletedAt != nil {
		done := *t.CompletedAt
		c.CompletedAt = &done
	}
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return c
}

// CloneTasks clones a slice of tasks.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
