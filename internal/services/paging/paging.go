// Package paging implements the pagination contract shared by the task and
// event list endpoints.
package paging

// Pagination bounds for list queries.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination describes one page of a filtered result set. Total counts the
// full filtered set, not the returned page.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// Clamp normalizes page and pageSize to the documented defaults and bounds.
func Clamp(page, pageSize int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Slice returns the requested page of items along with pagination metadata.
// A page beyond the end yields an empty slice; totalPages is never below 1.
func Slice[T any](items []T, page, pageSize int) ([]T, Pagination) {
	page, pageSize = Clamp(page, pageSize)
	total := len(items)

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	out := make([]T, end-start)
	copy(out, items[start:end])

	return out, Pagination{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
